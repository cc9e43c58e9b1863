package infra

// pdf.go — PDF generation using go-pdf/fpdf.
// Two documents:
//   - order receipt (A4): client block, item table with per-bag breakdown,
//     bold total, payment terms. Saved to storagePath/recibo_{numero}.pdf.
//   - bag label sheet (A4): one cell per bag with product, identifier, weight
//     and intake date, for printing and taping onto the physical bags.
//     Returned in memory for direct HTTP download.

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/model"

	"github.com/go-pdf/fpdf"
)

// GerarReciboPDF renders the order receipt and returns the absolute path to
// the generated file. storagePath is created if needed.
func GerarReciboPDF(pedido *model.Pedido, empresaNome, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recibo_%s.pdf", pedido.Numero)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 10, empresaNome, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Recibo de Pedido", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Order info ───────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW/2, 6, "Pedido "+pedido.Numero, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW/2, 6, pedido.DataPedido.Format("02/01/2006"), "", 1, "R", false, 0, "")
	pdf.Ln(2)

	// ── Client block ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 5, "Cliente", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, pedido.ClienteNome, "", 1, "L", false, 0, "")
	if c := pedido.Cliente; c != nil {
		if c.CNPJ != "" {
			pdf.CellFormat(contentW, 5, "CNPJ: "+c.CNPJ, "", 1, "L", false, 0, "")
		}
		if c.Telefone != "" {
			pdf.CellFormat(contentW, 5, "Telefone: "+c.Telefone, "", 1, "L", false, 0, "")
		}
		if endereco := enderecoLinha(c); endereco != "" {
			pdf.CellFormat(contentW, 5, endereco, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(4)

	// ── Items table ──────────────────────────────────────────────────────────
	col1 := contentW * 0.42 // product / bag
	col2 := contentW * 0.18 // weight
	col3 := contentW * 0.18 // price per kg
	col4 := contentW * 0.22 // subtotal

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Produto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Peso (kg)", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col3, 6, "R$/kg", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "Subtotal", "B", 1, "R", false, 0, "")

	for _, item := range pedido.Itens {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(col1, 6, item.ProdutoNome, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, item.PesoKg.StringFixed(3), "", 0, "R", false, 0, "")
		pdf.CellFormat(col3, 6, "R$ "+item.PrecoPorKg.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, "R$ "+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")

		// Bag breakdown — indented detail lines
		pdf.SetFont("Helvetica", "I", 8)
		for _, b := range item.Bags {
			ident := b.Identificador
			if ident == "" {
				ident = b.BagID.String()[:8]
			}
			pdf.CellFormat(col1, 4, "   bag "+ident, "", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 4, b.PesoKg.StringFixed(3), "", 0, "R", false, 0, "")
			pdf.CellFormat(col3, 4, "", "", 0, "R", false, 0, "")
			pdf.CellFormat(col4, 4, "R$ "+b.Total.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(col1+col2+col3, 8, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 8, "R$ "+pedido.Total.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Payment ──────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 9)
	if pedido.FormaPagamento != "" {
		pdf.CellFormat(contentW, 5, "Forma de pagamento: "+pedido.FormaPagamento, "", 1, "L", false, 0, "")
	}
	if pedido.PrazoPagamento != nil && *pedido.PrazoPagamento != "" {
		pdf.CellFormat(contentW, 5, "Prazo: "+*pedido.PrazoPagamento, "", 1, "L", false, 0, "")
	}
	if pedido.DataVencimento != nil {
		pdf.CellFormat(contentW, 5, "Vencimento: "+pedido.DataVencimento.Format("02/01/2006"), "", 1, "L", false, 0, "")
	}
	if pedido.Observacoes != nil && *pedido.Observacoes != "" {
		pdf.Ln(2)
		pdf.MultiCell(contentW, 5, "Obs: "+*pedido.Observacoes, "", "L", false)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// GerarEtiquetasPDF renders a printable label sheet for the given bags of a
// product, returned as raw PDF bytes.
func GerarEtiquetasPDF(produto *model.Produto, bags []model.Bag, empresaNome string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	labelW := (pageW - 20 - 10) / 2 // two columns, 10mm gutter
	labelH := 40.0

	x, y := 10.0, 10.0
	for _, b := range bags {
		if y+labelH > pageH-10 {
			pdf.AddPage()
			x, y = 10.0, 10.0
		}

		pdf.Rect(x, y, labelW, labelH, "D")

		pdf.SetXY(x+3, y+3)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(labelW-6, 6, empresaNome, "", 2, "L", false, 0, "")

		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(labelW-6, 6, produto.Nome, "", 2, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		if b.Identificador != "" {
			pdf.CellFormat(labelW-6, 5, "Bag: "+b.Identificador, "", 2, "L", false, 0, "")
		}
		pdf.CellFormat(labelW-6, 5, "Peso: "+b.PesoKg.StringFixed(3)+" kg", "", 2, "L", false, 0, "")
		pdf.CellFormat(labelW-6, 5, "Entrada: "+b.CriadoEm.Format("02/01/2006"), "", 2, "L", false, 0, "")

		// Next slot: fill the row, then wrap
		if x == 10.0 {
			x = 10.0 + labelW + 10
		} else {
			x = 10.0
			y += labelH + 5
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render labels: %w", err)
	}
	return buf.Bytes(), nil
}

func enderecoLinha(c *model.Cliente) string {
	parts := []string{}
	for _, p := range []string{c.Endereco, c.Bairro, c.Cidade, c.Estado} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

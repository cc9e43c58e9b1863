package dto

type CriarClienteRequest struct {
	Nome     string  `json:"nome" validate:"required"`
	CNPJ     string  `json:"cnpj" validate:"required"`
	Telefone string  `json:"telefone"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Endereco string  `json:"endereco"`
	Bairro   string  `json:"bairro"`
	Cidade   string  `json:"cidade"`
	Estado   string  `json:"estado" validate:"omitempty,len=2"`
	CEP      string  `json:"cep"`
}

type AtualizarClienteRequest struct {
	Nome     string  `json:"nome"`
	CNPJ     string  `json:"cnpj"`
	Telefone string  `json:"telefone"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Endereco string  `json:"endereco"`
	Bairro   string  `json:"bairro"`
	Cidade   string  `json:"cidade"`
	Estado   string  `json:"estado" validate:"omitempty,len=2"`
	CEP      string  `json:"cep"`
}

// ClienteFilter is bound from the query string of GET /v1/clientes.
// Busca matches nome or cnpj.
type ClienteFilter struct {
	Busca string `form:"busca"`
	Page  int    `form:"page,default=1" validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ClienteResponse struct {
	ID       string  `json:"id"`
	Nome     string  `json:"nome"`
	CNPJ     string  `json:"cnpj"`
	Telefone string  `json:"telefone"`
	Email    *string `json:"email,omitempty"`
	Endereco string  `json:"endereco"`
	Bairro   string  `json:"bairro"`
	Cidade   string  `json:"cidade"`
	Estado   string  `json:"estado"`
	CEP      string  `json:"cep"`
}

type ClienteListResponse struct {
	Data  []ClienteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

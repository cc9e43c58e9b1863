package infra

import (
	"fmt"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches GORM
// cannot express (sequences, partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates / updates the schema. Also used by integration tests
// against a fresh container database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Cliente{},
		&model.Produto{},
		&model.Bag{},
		&model.HistoricoPreco{},
		&model.MovimentoEstoque{},
		&model.Pedido{},
		&model.PedidoItem{},
		&model.PedidoItemBag{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle:
// the order-number sequence and partial indexes for hot queries.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Atomic order numbering — nextval() inside the confirmation transaction
		`CREATE SEQUENCE IF NOT EXISTS pedidos_numero_seq START 1`,

		// Allocation scan: available bags of a product, oldest first
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_bags_disponiveis') THEN
		    CREATE INDEX idx_bags_disponiveis
		        ON bags (produto_id, criado_em)
		        WHERE status = 'disponivel' AND peso_kg > 0;
		  END IF;
		END $$`,

		// Retry cron scan: receipts still awaiting delivery
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_pedidos_recibo_pendente') THEN
		    CREATE INDEX idx_pedidos_recibo_pendente
		        ON pedidos (proxima_tentativa)
		        WHERE recibo_enviado = false AND proxima_tentativa IS NOT NULL;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}

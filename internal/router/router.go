package router

import (
	"time"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/cache"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/config"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/handler"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/middleware"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/repository"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/service"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	appCache := cache.New(rdb, time.Minute)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	bagRepo := repository.NewBagRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	clienteSvc := service.NewClienteService(clienteRepo)
	produtoSvc := service.NewProdutoService(produtoRepo, appCache)
	estoqueSvc := service.NewEstoqueService(bagRepo, produtoRepo, appCache, cfg.EstoqueMinimoKg, cfg.EmpresaNome)
	pedidoSvc := service.NewPedidoService(pedidoRepo, bagRepo, produtoRepo, clienteRepo, dispatcher, appCache, cfg.EmpresaNome, cfg.PDFStoragePath)
	dashboardSvc := service.NewDashboardService(clienteRepo, pedidoRepo, estoqueSvc, appCache)
	exportSvc := service.NewExportService(pedidoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	produtosH := handler.NewProdutosHandler(produtoSvc, estoqueSvc)
	estoqueH := handler.NewEstoqueHandler(estoqueSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)
	exportH := handler.NewExportHandler(exportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	staff := middleware.RequireRole("admin", "operador")
	admin := middleware.RequireRole("admin")

	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/dashboard", staff, dashboardH.Resumo)

		clientes := v1.Group("/clientes", staff)
		{
			clientes.POST("", clientesH.Criar)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.Obter)
			clientes.PUT("/:id", clientesH.Atualizar)
		}
		v1.DELETE("/clientes/:id", admin, clientesH.Excluir)

		produtos := v1.Group("/produtos", staff)
		{
			produtos.POST("", produtosH.Criar)
			produtos.GET("", produtosH.Listar)
			produtos.GET("/:id", produtosH.Obter)
			produtos.PUT("/:id", produtosH.Atualizar)
			produtos.GET("/:id/historico-precos", produtosH.HistoricoPrecos)
			produtos.GET("/:id/etiquetas", produtosH.Etiquetas)
			produtos.POST("/:id/bags", estoqueH.CriarBags)
			produtos.GET("/:id/bags", estoqueH.ListarBags)
		}
		v1.DELETE("/produtos/:id", admin, produtosH.Excluir)

		// Manual stock edits touch weight directly — admin only
		bags := v1.Group("/bags", admin)
		{
			bags.PUT("/:bagId", estoqueH.AtualizarBag)
			bags.DELETE("/:bagId", estoqueH.ExcluirBag)
		}

		estoque := v1.Group("/estoque", staff)
		{
			estoque.GET("", estoqueH.Listar)
			estoque.GET("/alertas", estoqueH.Alertas)
			estoque.GET("/movimentos", estoqueH.Movimentos)
		}

		pedidos := v1.Group("/pedidos", staff)
		{
			pedidos.POST("", pedidosH.Criar)
			pedidos.GET("", pedidosH.Listar)
			pedidos.GET("/:id", pedidosH.Obter)
			pedidos.PUT("/:id", pedidosH.Atualizar)
			pedidos.PATCH("/:id/status", pedidosH.AtualizarStatus)
			pedidos.GET("/:id/recibo", pedidosH.Recibo)
			pedidos.POST("/:id/reenviar-recibo", pedidosH.ReenviarRecibo)
		}
		v1.DELETE("/pedidos/:id", admin, pedidosH.Excluir)

		// CSV export lives under /export to keep /pedidos/:id unambiguous
		v1.GET("/export/pedidos", staff, exportH.PedidosCSV)

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Criar)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Atualizar)
			usuarios.DELETE("/:id", usuariosH.Desativar)
			usuarios.PATCH("/:id/reativar", usuariosH.Reativar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

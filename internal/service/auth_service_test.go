package service

import (
	"context"
	"sort"
	"testing"

	"github.com/maciellsuka/mondini-stock-flow-control/internal/config"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/dto"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/model"
	"github.com/maciellsuka/mondini-stock-flow-control/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Usuario, error) {
	if u, ok := r.usuarios[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username && u.Ativo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) List(ctx context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Ativo {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUsuarioRepo) ListAll(ctx context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *stubUsuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Ativo = false
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) Reativar(ctx context.Context, id uuid.UUID) error {
	if u, ok := r.usuarios[id]; ok {
		u.Ativo = true
		return nil
	}
	return gorm.ErrRecordNotFound
}

func buildAuthSvc(t *testing.T) (AuthService, *stubUsuarioRepo) {
	t.Helper()
	repo := newStubUsuarioRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
	return NewAuthService(repo, cfg), repo
}

func seedUsuario(t *testing.T, r *stubUsuarioRepo, username, password, rol string) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{Username: username, Nome: "Usuario Teste", PasswordHash: string(hash), Rol: rol, Ativo: true}
	require.NoError(t, r.Create(context.Background(), u))
	return u
}

func TestLogin(t *testing.T) {
	svc, repo := buildAuthSvc(t)
	ctx := context.Background()
	seedUsuario(t, repo, "maria@mondini.com", "senha-forte", model.RolAdmin)

	resp, err := svc.Login(ctx, dto.LoginRequest{Username: "maria@mondini.com", Password: "senha-forte"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, model.RolAdmin, resp.User.Rol)

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "maria@mondini.com", Password: "errada"})
	assert.ErrorContains(t, err, "credenciais invalidas")

	_, err = svc.Login(ctx, dto.LoginRequest{Username: "ninguem@mondini.com", Password: "senha-forte"})
	assert.ErrorContains(t, err, "credenciais invalidas")
}

func TestLogin_UsuarioInativo(t *testing.T) {
	svc, repo := buildAuthSvc(t)
	ctx := context.Background()
	u := seedUsuario(t, repo, "jose@mondini.com", "senha-forte", model.RolOperador)
	require.NoError(t, repo.SoftDelete(ctx, u.ID))

	_, err := svc.Login(ctx, dto.LoginRequest{Username: "jose@mondini.com", Password: "senha-forte"})
	assert.ErrorContains(t, err, "credenciais invalidas")
}

func TestRefresh(t *testing.T) {
	svc, repo := buildAuthSvc(t)
	ctx := context.Background()
	u := seedUsuario(t, repo, "ana@mondini.com", "senha-forte", model.RolOperador)

	login, err := svc.Login(ctx, dto.LoginRequest{Username: "ana@mondini.com", Password: "senha-forte"})
	require.NoError(t, err)

	renovado, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renovado.AccessToken)
	assert.Equal(t, u.ID.String(), renovado.User.ID)

	_, err = svc.Refresh(ctx, "token-invalido")
	assert.ErrorContains(t, err, "refresh token invalido")

	// Deactivated between login and refresh
	require.NoError(t, repo.SoftDelete(ctx, u.ID))
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorContains(t, err, "inativo")
}

func TestCriarUsuario_HashEListagem(t *testing.T) {
	svc, repo := buildAuthSvc(t)
	ctx := context.Background()

	resp, err := svc.CriarUsuario(ctx, dto.CriarUsuarioRequest{
		Username: "novo@mondini.com",
		Nome:     "Operador Novo",
		Password: "senha-nova-123",
		Rol:      model.RolOperador,
	})
	require.NoError(t, err)
	assert.True(t, resp.Ativo)

	// Password never stored in the clear
	stored, err := repo.FindByUsername(ctx, "novo@mondini.com")
	require.NoError(t, err)
	assert.NotEqual(t, "senha-nova-123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("senha-nova-123")))

	require.NoError(t, svc.DesativarUsuario(ctx, stored.ID))

	ativos, err := svc.ListarUsuarios(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, ativos)

	todos, err := svc.ListarUsuarios(ctx, true)
	require.NoError(t, err)
	assert.Len(t, todos, 1)

	require.NoError(t, svc.ReativarUsuario(ctx, stored.ID))
	ativos, err = svc.ListarUsuarios(ctx, false)
	require.NoError(t, err)
	assert.Len(t, ativos, 1)
}

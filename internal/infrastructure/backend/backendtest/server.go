// Package backendtest runs an in-process stand-in for the shop backend REST
// API. It issues real HS256 tokens on login and rejects resource calls that do
// not present one, so tests exercise the console's credential handling end to end.
package backendtest

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/mobi/cms-console/internal/core/domain"
)

const secret = "backendtest-secret"

type account struct {
	profile domain.UserProfile
	hash    []byte
}

// Server is a fake backend. Its API lives under BaseURL().
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	accounts   map[string]account
	products   map[int64]domain.Product
	categories []domain.Category
	orders     []domain.Order
	cart       []domain.CartItem
	nextID     int64
	failWith   int
	lastAuth   string
	loginCalls int
}

// New starts a fake backend that is closed when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		accounts: make(map[string]account),
		products: make(map[int64]domain.Product),
		nextID:   1,
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the value the console uses as its API base.
func (s *Server) BaseURL() string { return s.URL + "/api" }

// AddUser registers an account that can log in with password.
func (s *Server) AddUser(username, password string, roles ...domain.Role) domain.UserProfile {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := domain.UserProfile{
		ID:       s.nextID,
		Username: username,
		Email:    username + "@example.com",
		Roles:    roles,
	}
	s.nextID++
	s.accounts[username] = account{profile: p, hash: hash}
	return p
}

func (s *Server) AddCategory(c domain.Category) {
	s.mu.Lock()
	s.categories = append(s.categories, c)
	s.mu.Unlock()
}

func (s *Server) AddProduct(p domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextID
		s.nextID++
	}
	s.products[p.ID] = p
	return p
}

func (s *Server) AddOrder(o domain.Order) {
	s.mu.Lock()
	s.orders = append(s.orders, o)
	s.mu.Unlock()
}

func (s *Server) AddCartItem(c domain.CartItem) {
	s.mu.Lock()
	s.cart = append(s.cart, c)
	s.mu.Unlock()
}

// FailWith makes every request answer with code; 0 restores normal service.
func (s *Server) FailWith(code int) {
	s.mu.Lock()
	s.failWith = code
	s.mu.Unlock()
}

// LastAuthorization returns the Authorization header of the latest request.
func (s *Server) LastAuthorization() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuth
}

func (s *Server) LoginCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginCalls
}

// Product returns the stored product with id.
func (s *Server) Product(id int64) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(s.record)

	api := e.Group("/api")
	api.POST("/auth/login", s.login)

	authed := api.Group("", s.requireToken)
	authed.GET("/products", s.listProducts)
	authed.GET("/products/:id", s.getProduct)
	authed.POST("/products", s.createProduct)
	authed.PUT("/products/:id", s.updateProduct)
	authed.DELETE("/products/:id", s.deleteProduct)
	authed.GET("/categories", s.listCategories)
	authed.GET("/orders", s.listOrders)
	authed.GET("/orders/:id", s.getOrder)
	authed.GET("/cart", s.listCart)

	admin := authed.Group("/users", s.requireRole(domain.RoleAdmin))
	admin.GET("", s.listUsers)
	admin.GET("/:id", s.getUser)
	admin.DELETE("/:id", s.deleteUser)
	return e
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.lastAuth = c.Request().Header.Get("Authorization")
		code := s.failWith
		s.mu.Unlock()
		if code != 0 {
			return c.JSON(code, map[string]string{"message": "injected failure"})
		}
		return next(c)
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string             `json:"accessToken"`
	User        domain.UserProfile `json:"user"`
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid payload"})
	}

	s.mu.Lock()
	s.loginCalls++
	acct, ok := s.accounts[req.Username]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(acct.hash, []byte(req.Password)) != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
	}

	roles := make([]string, 0, len(acct.profile.Roles))
	for _, r := range acct.profile.Roles {
		roles = append(roles, string(r))
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   acct.profile.Username,
		"roles": roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{AccessToken: signed, User: acct.profile})
}

func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := strings.CutPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		}
		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !tkn.Valid {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		}
		var roles []domain.Role
		if rs, ok := claims["roles"].([]any); ok {
			for _, r := range rs {
				if str, ok := r.(string); ok {
					roles = append(roles, domain.Role(str))
				}
			}
		}
		c.Set("roles", roles)
		return next(c)
	}
}

func (s *Server) requireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, _ := c.Get("roles").([]domain.Role)
			if !slices.Contains(roles, role) {
				return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden"})
			}
			return next(c)
		}
	}
}

func idParam(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil
}

func (s *Server) listProducts(c echo.Context) error {
	s.mu.Lock()
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	s.mu.Unlock()
	slices.SortFunc(out, func(a, b domain.Product) int { return int(a.ID - b.ID) })
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getProduct(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return c.NoContent(http.StatusBadRequest)
	}
	p, found := s.Product(id)
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Product not found"})
	}
	return c.JSON(http.StatusOK, p)
}

func (s *Server) createProduct(c echo.Context) error {
	var in domain.ProductInput
	if err := c.Bind(&in); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	p := s.AddProduct(s.fromInput(0, in))
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProduct(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return c.NoContent(http.StatusBadRequest)
	}
	var in domain.ProductInput
	if err := c.Bind(&in); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	if _, found := s.Product(id); !found {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Product not found"})
	}
	return c.JSON(http.StatusOK, s.AddProduct(s.fromInput(id, in)))
}

func (s *Server) deleteProduct(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return c.NoContent(http.StatusBadRequest)
	}
	s.mu.Lock()
	_, found := s.products[id]
	delete(s.products, id)
	s.mu.Unlock()
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Product not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) fromInput(id int64, in domain.ProductInput) domain.Product {
	p := domain.Product{ID: id, Name: in.Name, Price: in.Price, Description: in.Description}
	if in.CategoryID != nil {
		s.mu.Lock()
		for _, cat := range s.categories {
			if cat.ID == *in.CategoryID {
				p.Category = &cat
			}
		}
		s.mu.Unlock()
	}
	return p
}

func (s *Server) listCategories(c echo.Context) error {
	s.mu.Lock()
	out := slices.Clone(s.categories)
	s.mu.Unlock()
	if out == nil {
		out = []domain.Category{}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) listOrders(c echo.Context) error {
	s.mu.Lock()
	out := slices.Clone(s.orders)
	s.mu.Unlock()
	if out == nil {
		out = []domain.Order{}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getOrder(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return c.NoContent(http.StatusBadRequest)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return c.JSON(http.StatusOK, o)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"message": "Order not found"})
}

func (s *Server) listCart(c echo.Context) error {
	s.mu.Lock()
	out := slices.Clone(s.cart)
	s.mu.Unlock()
	if out == nil {
		out = []domain.CartItem{}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) listUsers(c echo.Context) error {
	s.mu.Lock()
	out := make([]domain.UserProfile, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.profile)
	}
	s.mu.Unlock()
	slices.SortFunc(out, func(a, b domain.UserProfile) int { return int(a.ID - b.ID) })
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getUser(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return c.NoContent(http.StatusBadRequest)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.profile.ID == id {
			return c.JSON(http.StatusOK, a.profile)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
}

func (s *Server) deleteUser(c echo.Context) error {
	id, ok := idParam(c)
	if !ok {
		return c.NoContent(http.StatusBadRequest)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, a := range s.accounts {
		if a.profile.ID == id {
			delete(s.accounts, name)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
}

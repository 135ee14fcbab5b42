// Package catalogfake is an in-memory stand-in for the remote catalog API.
// It serves the same /v1 endpoints and is used by tests and by
// cmd/tools/mockcatalog for local development.
package catalogfake

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type product struct {
	ID            string
	Name          string
	Description   string
	Price         decimal.Decimal
	OriginalPrice *decimal.Decimal
	Category      string
	ImageURL      *string
	seq           int
}

type category struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	seq         int
}

type failure struct {
	status  int
	message string
}

// Server holds the fake catalog state. Safe for concurrent use.
type Server struct {
	mu         sync.Mutex
	users      map[string]user // by email
	tokens     map[string]string
	products   map[string]*product
	categories map[string]*category
	seq        int
	requests   map[string]int
	lastRID    string
	failNext   *failure
	engine     *gin.Engine
}

type user struct {
	ID       string
	Name     string
	Email    string
	Role     string
	Password string
}

func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		users:      map[string]user{},
		tokens:     map[string]string{},
		products:   map[string]*product{},
		categories: map[string]*category{},
		requests:   map[string]int{},
	}
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.track())

	v1 := r.Group("/v1")
	v1.POST("/auth/login", s.login)

	v1.GET("/products", s.listProducts)
	v1.GET("/products/:id", s.getProduct)
	v1.POST("/products/add", s.auth(), s.createProduct)
	v1.POST("/products/update/:id", s.auth(), s.updateProduct)
	v1.PUT("/products/update/:id", s.auth(), s.updateProduct)
	v1.DELETE("/products/:id", s.auth(), s.deleteProduct)

	v1.GET("/categories", s.listCategories)
	v1.GET("/categories/:id", s.getCategory)
	v1.POST("/categories", s.auth(), s.createCategory)
	v1.PUT("/categories/:id", s.auth(), s.updateCategory)
	v1.DELETE("/categories/:id", s.auth(), s.deleteCategory)
	return r
}

// AddUser registers credentials accepted by /v1/auth/login.
func (s *Server) AddUser(email, password, name, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.ToLower(email)] = user{
		ID: uuid.NewString(), Email: email, Password: password, Name: name, Role: role,
	}
}

// AddCategory seeds a category and returns its id.
func (s *Server) AddCategory(name, description string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	c := &category{ID: uuid.NewString(), Name: name, Description: description, seq: s.seq}
	s.categories[c.ID] = c
	return c.ID
}

// AddProduct seeds a product and returns its id.
func (s *Server) AddProduct(name, description, price, categoryID, imageURL string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	p := &product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Price:       decimal.RequireFromString(price),
		Category:    categoryID,
		seq:         s.seq,
	}
	if imageURL != "" {
		p.ImageURL = &imageURL
	}
	s.products[p.ID] = p
	return p.ID
}

// SetOriginalPrice marks a seeded product as discounted.
func (s *Server) SetOriginalPrice(id, price string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		d := decimal.RequireFromString(price)
		p.OriginalPrice = &d
	}
}

// FailNext makes the next request answer with status and message.
func (s *Server) FailNext(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = &failure{status: status, message: message}
}

// Requests returns how many requests hit "METHOD /path/pattern".
func (s *Server) Requests(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[key]
}

// TotalRequests counts every request served.
func (s *Server) TotalRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.requests {
		n += v
	}
	return n
}

// LastRequestID is the X-Request-ID header of the latest request.
func (s *Server) LastRequestID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRID
}

// ProductIDs lists stored product ids in insertion order.
func (s *Server) ProductIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := s.sortedProducts()
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

// ProductImage returns the stored imageUrl (nil when null).
func (s *Server) ProductImage(id string) *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		return p.ImageURL
	}
	return nil
}

func (s *Server) track() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.requests[c.Request.Method+" "+c.FullPath()]++
		s.lastRID = c.GetHeader("X-Request-ID")
		f := s.failNext
		s.failNext = nil
		s.mu.Unlock()

		if f != nil {
			c.AbortWithStatusJSON(f.status, gin.H{"message": f.message})
			return
		}
		c.Next()
	}
}

func (s *Server) auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		tok, ok := strings.CutPrefix(h, "Bearer ")
		s.mu.Lock()
		_, known := s.tokens[tok]
		s.mu.Unlock()
		if !ok || !known {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) login(c *gin.Context) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}
	s.mu.Lock()
	u, ok := s.users[strings.ToLower(in.Email)]
	if !ok || u.Password != in.Password {
		s.mu.Unlock()
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}
	tok := uuid.NewString()
	s.tokens[tok] = u.ID
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"token": tok,
		"user":  gin.H{"_id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role},
	})
}

func (s *Server) sortedProducts() []*product {
	ps := make([]*product, 0, len(s.products))
	for _, p := range s.products {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].seq < ps[j].seq })
	return ps
}

// productJSON mirrors a populated product document.
func (s *Server) productJSON(p *product) gin.H {
	var cat any = p.Category
	if c, ok := s.categories[p.Category]; ok {
		cat = gin.H{"_id": c.ID, "name": c.Name}
	}
	out := gin.H{
		"_id":         p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       json.Number(p.Price.String()),
		"category":    cat,
		"imageUrl":    p.ImageURL,
	}
	if p.OriginalPrice != nil {
		out["originalPrice"] = json.Number(p.OriginalPrice.String())
	}
	return out
}

func (s *Server) listProducts(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := s.sortedProducts()
	out := make([]gin.H, 0, len(ps))
	for _, p := range ps {
		out = append(out, s.productJSON(p))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getProduct(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, s.productJSON(p))
}

type productBody struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	ImageURL    *string         `json:"imageUrl"`
}

// decodeProduct also reports whether imageUrl was present in the body.
func decodeProduct(c *gin.Context) (productBody, bool, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		return productBody{}, false, false
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return productBody{}, false, false
	}
	var in productBody
	if err := json.Unmarshal(raw, &in); err != nil {
		return productBody{}, false, false
	}
	_, hasImage := keys["imageUrl"]
	return in, hasImage, true
}

func (in productBody) invalid() string {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return "name is required"
	case strings.TrimSpace(in.Description) == "":
		return "description is required"
	case !in.Price.IsPositive():
		return "price must be positive"
	case in.Category == "":
		return "category is required"
	}
	return ""
}

func (s *Server) createProduct(c *gin.Context) {
	in, _, ok := decodeProduct(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product"})
		return
	}
	if msg := in.invalid(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	p := &product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		seq:         s.seq,
	}
	s.products[p.ID] = p
	c.JSON(http.StatusCreated, s.productJSON(p))
}

func (s *Server) updateProduct(c *gin.Context) {
	in, hasImage, ok := decodeProduct(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product"})
		return
	}
	if msg := in.invalid(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, found := s.products[c.Param("id")]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	p.Name, p.Description, p.Price, p.Category = in.Name, in.Description, in.Price, in.Category
	if hasImage {
		p.ImageURL = in.ImageURL
	}
	c.JSON(http.StatusOK, s.productJSON(p))
}

func (s *Server) deleteProduct(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	if _, ok := s.products[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	delete(s.products, id)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func (s *Server) listCategories(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cs := make([]*category, 0, len(s.categories))
	for _, cat := range s.categories {
		cs = append(cs, cat)
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].seq < cs[j].seq })
	c.JSON(http.StatusOK, cs)
}

func (s *Server) getCategory(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat, ok := s.categories[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, cat)
}

type categoryBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) createCategory(c *gin.Context) {
	var in categoryBody
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category name is required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if strings.EqualFold(existing.Name, in.Name) {
			c.JSON(http.StatusConflict, gin.H{"message": "Category already exists"})
			return
		}
	}
	s.seq++
	cat := &category{ID: uuid.NewString(), Name: in.Name, Description: in.Description, seq: s.seq}
	s.categories[cat.ID] = cat
	c.JSON(http.StatusCreated, cat)
}

func (s *Server) updateCategory(c *gin.Context) {
	var in categoryBody
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category name is required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cat, ok := s.categories[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		return
	}
	cat.Name, cat.Description = in.Name, in.Description
	c.JSON(http.StatusOK, cat)
}

func (s *Server) deleteCategory(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("id")
	if _, ok := s.categories[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		return
	}
	delete(s.categories, id)
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

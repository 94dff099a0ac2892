package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// StaticService provides an in-memory catalog suitable for local development and tests.
type StaticService struct {
	mu         sync.Mutex
	products   []Product
	categories map[int]Category
	nextID     int
}

// NewStaticService returns a StaticService populated with representative products.
func NewStaticService() *StaticService {
	categories := []Category{
		{ID: 1, Name: "Clothes"},
		{ID: 2, Name: "Electronics"},
		{ID: 3, Name: "Furniture"},
		{ID: 4, Name: "Shoes"},
		{ID: 5, Name: "Miscellaneous"},
	}
	byID := make(map[int]Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	seed := []struct {
		title    string
		price    float64
		category int
		image    string
	}{
		{"Classic Red Pullover Hoodie", 10, 1, `["https://i.imgur.com/1twoaDy.jpeg"]`},
		{"Classic Heather Gray Hoodie", 69, 1, "https://i.imgur.com/cHddUCu.jpeg"},
		{"Classic Grey Hooded Sweatshirt", 90, 1, `["https://i.imgur.com/R2PN9Wq.jpeg"`},
		{"Classic Black Hooded Sweatshirt", 79, 1, "https://i.imgur.com/cSytoSD.jpeg"},
		{"Classic Comfort Fit Joggers", 25, 1, "https://i.imgur.com/ZKGofuB.jpeg"},
		{"Sleek Wireless Headphone & Inked Earbud Set", 44, 2, "https://i.imgur.com/yVeIeDa.jpeg"},
		{"Sleek Comfort-Fit Over-Ear Headphones", 28, 2, "https://i.imgur.com/SolkFEB.jpeg"},
		{"Efficient 2-Slice Toaster", 48, 2, "https://i.imgur.com/keVCVIa.jpeg"},
		{"Sleek Wireless Computer Mouse", 10, 2, ""},
		{"Sleek Modern Leather Sofa", 53, 3, "https://i.imgur.com/Qphac99.jpeg"},
		{"Mid-Century Modern Wooden Dining Table", 24, 3, "https://i.imgur.com/DMQHGA0.jpeg"},
		{"Elegant Golden-Base Stone Top Dining Table", 66, 3, "https://i.imgur.com/NWIJKUj.jpeg"},
		{"Modern Elegance Teal Armchair", 25, 3, "https://i.imgur.com/6wkyyIN.jpeg"},
		{"Classic High-Waisted Athletic Shoes", 84, 4, "https://i.imgur.com/mcW42Gi.jpeg"},
		{"Futuristic Silver and Gold High-Top Sneaker", 68, 4, "https://i.imgur.com/npLfCGq.jpeg"},
		{"Futuristic Chic High-Heel Boots", 36, 4, "https://i.imgur.com/HqYqLnW.jpeg"},
		{"Stylish Red & Silver Over-Ear Headphones", 39, 5, "not-a-url"},
		{"Vibrant Runners: Bold Orange & Blue Sneakers", 27.5, 4, "https://i.imgur.com/hKcMNJs.jpeg"},
		{"Radiant Citrus Eau de Parfum", 73, 5, "https://i.imgur.com/xPDwUb3.jpg"},
		{"Sleek Olive Green Hardshell Carry-On Luggage", 48, 5, "https://i.imgur.com/jVfoZnP.jpg"},
		{"Chic Transparent Fashion Handbag", 61, 5, "https://i.imgur.com/Lqaqz59.jpg"},
		{"Trendy Pink-Tinted Sunglasses", 38, 5, "https://i.imgur.com/0qQBkxX.jpg"},
	}

	products := make([]Product, 0, len(seed))
	for i, s := range seed {
		cat := byID[s.category]
		p := Product{
			ID:          i + 1,
			Title:       s.title,
			Price:       s.price,
			Description: fmt.Sprintf("%s from the %s collection.", s.title, strings.ToLower(cat.Name)),
			Category:    &cat,
		}
		if s.image != "" {
			p.Images = []string{s.image}
		}
		products = append(products, p)
	}

	return &StaticService{
		products:   products,
		categories: byID,
		nextID:     len(products) + 1,
	}
}

// NewStaticServiceWith returns a StaticService holding exactly the provided products.
func NewStaticServiceWith(products []Product) *StaticService {
	svc := &StaticService{categories: map[int]Category{}}
	next := 1
	for _, p := range products {
		svc.products = append(svc.products, cloneProduct(p))
		if p.Category != nil {
			svc.categories[p.Category.ID] = *p.Category
		}
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	svc.nextID = next
	return svc
}

// Search filters by case-insensitive title substring and applies offset/limit.
func (s *StaticService) Search(ctx context.Context, query Query) (SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return SearchResult{}, &Error{Kind: ErrNetwork, Op: "search", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	term := strings.ToLower(strings.TrimSpace(query.Title))
	matched := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if term != "" && !strings.Contains(strings.ToLower(p.Title), term) {
			continue
		}
		matched = append(matched, p)
	}

	offset := query.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > len(matched) {
		offset = len(matched)
	}
	end := len(matched)
	if query.Limit > 0 && offset+query.Limit < end {
		end = offset + query.Limit
	}

	page := make([]Product, 0, end-offset)
	for _, p := range matched[offset:end] {
		page = append(page, cloneProduct(p))
	}
	return SearchResult{Products: page}, nil
}

// Create appends a product with the next identifier.
func (s *StaticService) Create(ctx context.Context, payload Payload) error {
	if err := ctx.Err(); err != nil {
		return &Error{Kind: ErrSave, Op: "create", Err: err}
	}
	if payload.Price == nil || payload.CategoryID == nil {
		return &Error{Kind: ErrSave, Op: "create", StatusCode: 400, Body: "price and categoryId must be numbers"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := Product{ID: s.nextID}
	s.nextID++
	s.apply(&p, payload)
	s.products = append(s.products, p)
	return nil
}

// Update replaces the editable fields of the product identified by id.
func (s *StaticService) Update(ctx context.Context, id int, payload Payload) error {
	if err := ctx.Err(); err != nil {
		return &Error{Kind: ErrSave, Op: "update", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			s.apply(&s.products[i], payload)
			return nil
		}
	}
	return &Error{Kind: ErrSave, Op: "update", StatusCode: 404, Body: fmt.Sprintf("product %d not found", id)}
}

func (s *StaticService) apply(p *Product, payload Payload) {
	p.Title = payload.Title
	p.Description = payload.Description
	if payload.Price != nil {
		p.Price = *payload.Price
	}
	if payload.CategoryID != nil {
		cat, ok := s.categories[*payload.CategoryID]
		if !ok {
			cat = Category{ID: *payload.CategoryID, Name: fmt.Sprintf("Category %d", *payload.CategoryID)}
		}
		p.Category = &cat
	}
	p.Images = append([]string(nil), payload.Images...)
}

func cloneProduct(p Product) Product {
	out := p
	if p.Category != nil {
		cat := *p.Category
		out.Category = &cat
	}
	out.Images = append([]string(nil), p.Images...)
	return out
}

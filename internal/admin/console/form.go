package console

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"finitefield.org/catalog-admin/internal/admin/catalog"
)

const (
	MessageCreated    = "Product created."
	MessageUpdated    = "Product updated."
	MessageSaveFailed = "Failed to save the product."
)

// defaultCategoryID pre-fills the edit form when the product has no category.
const defaultCategoryID = 1

// FormInput holds the form fields exactly as entered.
type FormInput struct {
	ID          string
	Title       string
	Price       string
	Description string
	CategoryID  string
	Image       string
}

// Editing reports whether the input targets an existing product.
func (in FormInput) Editing() bool {
	return strings.TrimSpace(in.ID) != ""
}

// Payload converts the input into the body sent to the catalog. Numbers are read from their
// leading numeric prefix ("12abc" is 12, "3.7" is category 3); fields without one are left nil.
func (in FormInput) Payload() catalog.Payload {
	payload := catalog.Payload{
		Title:       in.Title,
		Description: in.Description,
		Images:      []string{in.Image},
	}
	if price, ok := leadingFloat(in.Price); ok {
		payload.Price = &price
	}
	if category, ok := leadingInt(in.CategoryID); ok {
		payload.CategoryID = &category
	}
	return payload
}

// leadingFloat parses the longest decimal prefix of s. Non-finite values are rejected.
func leadingFloat(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := skipSign(s, 0)
	digits := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := skipSign(s, end+1)
		start := exp
		for exp < len(s) && isDigit(s[exp]) {
			exp++
		}
		if exp > start {
			end = exp
		}
	}

	value, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// leadingInt parses the integer prefix of s, reading a 0x prefix as hexadecimal.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	start := skipSign(s, 0)
	sign := s[:start]
	rest := s[start:]

	base := 10
	if len(rest) >= 2 && rest[0] == '0' && (rest[1] == 'x' || rest[1] == 'X') {
		base = 16
		rest = rest[2:]
	}
	end := 0
	for end < len(rest) && digitIn(rest[end], base) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	value, err := strconv.ParseInt(sign+rest[:end], base, strconv.IntSize)
	if err != nil {
		return 0, false
	}
	return int(value), true
}

func skipSign(s string, i int) int {
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		return i + 1
	}
	return i
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func digitIn(c byte, base int) bool {
	if isDigit(c) {
		return true
	}
	if base != 16 {
		return false
	}
	c |= 0x20
	return 'a' <= c && c <= 'f'
}

func inputFromProduct(p catalog.Product) FormInput {
	category := defaultCategoryID
	if p.Category != nil {
		category = p.Category.ID
	}
	return FormInput{
		ID:          strconv.Itoa(p.ID),
		Title:       p.Title,
		Price:       catalog.FormatPrice(p.Price),
		Description: p.Description,
		CategoryID:  strconv.Itoa(category),
		Image:       p.FirstImage(),
	}
}

// FormController opens the create/edit overlay and submits it.
type FormController struct {
	service catalog.Service
	list    *ListController
	logger  *zap.Logger
}

// NewFormController wires a form controller. Successful saves refresh through list.
func NewFormController(service catalog.Service, list *ListController, logger *zap.Logger) *FormController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormController{service: service, list: list, logger: logger}
}

// OpenCreate opens an empty form, or the pending create draft when one exists.
func (c *FormController) OpenCreate(state *State, view View) {
	state.mu.Lock()
	input := FormInput{}
	if state.Draft != nil && !state.Draft.Editing() {
		input = *state.Draft
	}
	state.mu.Unlock()

	view.OpenForm(FormState{Mode: FormModeCreate, Input: input})
}

// OpenEdit opens the form pre-filled from the in-memory product, preferring a pending draft for the same product.
func (c *FormController) OpenEdit(state *State, id int, view View) bool {
	state.mu.Lock()
	product, ok := state.product(id)
	var input FormInput
	if ok {
		input = inputFromProduct(product)
		if state.Draft != nil && strings.TrimSpace(state.Draft.ID) == input.ID {
			input = *state.Draft
		}
	}
	state.mu.Unlock()
	if !ok {
		return false
	}

	view.OpenForm(FormState{Mode: FormModeEdit, Input: input})
	return true
}

// Save submits the form. The overlay is closed before the request is sent; on failure the
// input is kept as a draft and a danger notice is raised. A successful save refreshes the list once.
func (c *FormController) Save(ctx context.Context, state *State, input FormInput, view View) error {
	view.SetLoading(true)
	defer view.SetLoading(false)

	view.CloseForm()

	err := c.submit(ctx, input)
	if err != nil {
		c.logger.Error("save product failed",
			zap.Error(err),
			zap.Bool("editing", input.Editing()),
			zap.String("product_id", input.ID),
		)
		state.mu.Lock()
		draft := input
		state.Draft = &draft
		state.mu.Unlock()

		view.Notify(Notice{Message: MessageSaveFailed, Tone: ToneDanger})
		return err
	}

	state.mu.Lock()
	state.Draft = nil
	state.mu.Unlock()

	message := MessageCreated
	if input.Editing() {
		message = MessageUpdated
	}
	view.Notify(Notice{Message: message, Tone: ToneSuccess})

	// The list error, if any, is already rendered by the refresh.
	_, _ = c.list.Refresh(ctx, state, view)
	return nil
}

func (c *FormController) submit(ctx context.Context, input FormInput) error {
	payload := input.Payload()
	if !input.Editing() {
		return c.service.Create(ctx, payload)
	}
	id, err := strconv.Atoi(strings.TrimSpace(input.ID))
	if err != nil {
		return &catalog.Error{Kind: catalog.ErrSave, Op: "update", Err: fmt.Errorf("invalid product id %q: %w", input.ID, err)}
	}
	return c.service.Update(ctx, id, payload)
}

package console

// DetailView shows a single in-memory product.
type DetailView struct{}

// Show renders the product with the given id from the current page. It never calls the network.
func (DetailView) Show(state *State, id int, view View) bool {
	state.mu.Lock()
	product, ok := state.product(id)
	state.mu.Unlock()
	if !ok {
		return false
	}
	view.ShowDetail(product)
	return true
}

package interfaces

// TemplateRenderer abstracts the template engine used to render block
// fragments and page content. Renderers are consulted through a suggestion
// chain from most to least specific name; Exists lets the chain skip names
// the host never registered.
type TemplateRenderer interface {
	Render(name string, data any) (string, error)
	Exists(name string) bool
}

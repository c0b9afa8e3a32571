package entity

type UIElement struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	AriaLabel string `json:"aria_label,omitempty"`
	Role      string `json:"role,omitempty"`
	Href      string `json:"href,omitempty"`
	Selector  string `json:"selector"`
}

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

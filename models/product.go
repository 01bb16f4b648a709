package models

type Category struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	ParentID    *string    `json:"parent_id"`
	Order       int        `json:"order"`
	Children    []Category `json:"children,omitempty"`
}

type ProductImage struct {
	ID    string `json:"id,omitempty"`
	URL   string `json:"url"`
	Type  string `json:"type,omitempty"`
	Order int    `json:"order,omitempty"`
}

type ProductVariant struct {
	ID    string  `json:"id"`
	SKU   string  `json:"sku,omitempty"`
	Price float64 `json:"price"`
	Size  string  `json:"size,omitempty"`
	Color string  `json:"color,omitempty"`
	Stock int     `json:"stock"`
}

// Product is one record of the catalog snapshot the search matcher runs over.
// Tags, Material and Brand are optional; an empty string means the field is
// absent and is simply not searched.
type Product struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	BasePrice   float64          `json:"base_price"`
	Category    *Category        `json:"category,omitempty"`
	Images      []ProductImage   `json:"images,omitempty"`
	Variants    []ProductVariant `json:"variants,omitempty"`
	Tags        string           `json:"tags,omitempty"`
	Material    string           `json:"material,omitempty"`
	Brand       string           `json:"brand,omitempty"`
	Featured    bool             `json:"featured,omitempty"`
}

// SearchInitData is the bulk payload fetched from the commerce API to seed
// the catalog snapshot.
type SearchInitData struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
}

type SearchResultCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type SearchResultImage struct {
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

type SearchResultVariant struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
	Size  string  `json:"size,omitempty"`
	Color string  `json:"color,omitempty"`
	Stock int     `json:"stock"`
}

// SearchResult is the trimmed projection of a matching product.
type SearchResult struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	BasePrice   float64               `json:"base_price"`
	Category    *SearchResultCategory `json:"category,omitempty"`
	Images      []SearchResultImage   `json:"images,omitempty"`
	Variants    []SearchResultVariant `json:"variants,omitempty"`
	Tags        string                `json:"tags,omitempty"`
	Material    string                `json:"material,omitempty"`
	Brand       string                `json:"brand,omitempty"`
	Featured    bool                  `json:"featured,omitempty"`
}

// ToSearchResult projects a snapshot product into the search response shape.
func (p Product) ToSearchResult() SearchResult {
	result := SearchResult{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		BasePrice:   p.BasePrice,
		Tags:        p.Tags,
		Material:    p.Material,
		Brand:       p.Brand,
		Featured:    p.Featured,
	}

	if p.Category != nil {
		result.Category = &SearchResultCategory{
			ID:   p.Category.ID,
			Name: p.Category.Name,
			Slug: p.Category.Slug,
		}
	}

	for _, img := range p.Images {
		result.Images = append(result.Images, SearchResultImage{URL: img.URL, Type: img.Type})
	}

	for _, v := range p.Variants {
		result.Variants = append(result.Variants, SearchResultVariant{
			ID:    v.ID,
			Price: v.Price,
			Size:  v.Size,
			Color: v.Color,
			Stock: v.Stock,
		})
	}

	return result
}

// Package seed generates the synthetic product catalog used to populate the
// search index for demos and tests.
package seed

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/utafrali/ProductSearchGo/internal/domain"
)

// DefaultCount is the catalog size seeded when none is specified.
const DefaultCount = 150

var categories = map[string][]string{
	"Electronics":       {"Laptops", "Smartphones", "Headphones", "Cameras", "Tablets", "Smartwatches"},
	"Clothing":          {"Men's Wear", "Women's Wear", "Kids Wear", "Shoes", "Accessories"},
	"Home & Garden":     {"Furniture", "Kitchen", "Decor", "Bedding", "Lighting"},
	"Sports & Outdoors": {"Fitness Equipment", "Camping & Hiking", "Sports Gear", "Outdoor Apparel"},
	"Books & Media":     {"Fiction", "Non-Fiction", "Educational", "Comics", "Audiobooks"},
}

var categoryNames = []string{
	"Electronics", "Clothing", "Home & Garden", "Sports & Outdoors", "Books & Media",
}

var brands = map[string][]string{
	"Electronics":       {"TechPro", "SmartLife", "DigitalMax", "InnovateTech", "ProGadget"},
	"Clothing":          {"UrbanStyle", "FashionHub", "TrendyWear", "ClassicFit", "ModernThreads"},
	"Home & Garden":     {"HomeEssentials", "CozyLiving", "DesignPro", "ComfortHome", "StyleSpace"},
	"Sports & Outdoors": {"ActiveGear", "FitPro", "OutdoorElite", "SportsMaster", "AdventureX"},
	"Books & Media":     {"ReadWell", "BookMart", "StoryTime", "LiteraryHub", "PageTurner"},
}

type template struct {
	prefix   string
	suffix   string
	features []string
}

var templates = map[string]map[string][]template{
	"Electronics": {
		"Laptops": {
			{"Pro", "Laptop", []string{"16GB RAM", "512GB SSD", "Intel i7", `15.6" Display`}},
			{"Ultra", "Notebook", []string{"32GB RAM", "1TB SSD", "AMD Ryzen 9", `14" OLED`}},
			{"Gaming", "Laptop", []string{"RTX 4060", "16GB RAM", "1TB SSD", `17.3" 144Hz`}},
		},
		"Smartphones": {
			{"Pro", "Phone", []string{"5G", "128GB Storage", "48MP Camera", `6.5" AMOLED`}},
			{"Max", "Smartphone", []string{"5G", "256GB Storage", "108MP Camera", `6.7" Display`}},
			{"Lite", "Phone", []string{"4G", "64GB Storage", "32MP Camera", `6.1" LCD`}},
		},
		"Headphones": {
			{"Pro", "Headphones", []string{"Active Noise Cancelling", "Bluetooth 5.0", "30h Battery"}},
			{"Wireless", "Earbuds", []string{"True Wireless", "IPX4 Waterproof", "8h Battery"}},
		},
	},
	"Clothing": {
		"Men's Wear": {
			{"Classic", "Shirt", []string{"100% Cotton", "Regular Fit", "Machine Washable"}},
			{"Slim Fit", "Jeans", []string{"Stretch Denim", "Fade Resistant", "Modern Cut"}},
		},
		"Women's Wear": {
			{"Elegant", "Dress", []string{"Flowy Design", "Comfortable Fabric", "Versatile Style"}},
			{"Casual", "Blouse", []string{"Breathable", "Easy Care", "Modern Fit"}},
		},
	},
}

var colors = []string{"Black", "White", "Blue", "Red", "Gray", "Navy", "Green", "Pink", "Brown", "Beige"}

var sizes = []string{"XS", "S", "M", "L", "XL", "XXL"}

var descriptionOpeners = []string{
	"Built for everyday use",
	"Designed with attention to detail",
	"A customer favorite",
	"Engineered for durability",
	"Thoughtfully crafted",
	"A reliable choice",
}

var descriptionClosers = []string{
	"combining quality materials with a practical design.",
	"offering great value without compromising on quality.",
	"made to last through years of regular use.",
	"with a finish that stands out in its class.",
	"backed by consistently strong customer reviews.",
}

// Generator produces deterministic synthetic catalogs from a seed value.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator with the given random seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Products generates count synthetic products. Every product satisfies the
// catalog invariants: non-negative price and rating, and originalPrice
// derived from the discount so that price == originalPrice * (1 - discount/100).
func (g *Generator) Products(count int) []domain.Product {
	products := make([]domain.Product, 0, count)
	for i := 0; i < count; i++ {
		products = append(products, g.product(i))
	}
	return products
}

func (g *Generator) product(index int) domain.Product {
	category := categoryNames[g.rng.Intn(len(categoryNames))]
	subcategory := pick(g.rng, categories[category])
	brand := pick(g.rng, brands[category])

	isClothing := category == "Clothing"
	isElectronics := category == "Electronics"

	tmpl := template{suffix: subcategory}
	if byCategory, ok := templates[category]; ok {
		if candidates, ok := byCategory[subcategory]; ok && len(candidates) > 0 {
			tmpl = candidates[g.rng.Intn(len(candidates))]
		}
	}

	name := brand + " " + tmpl.prefix + " " + tmpl.suffix
	if tmpl.prefix == "" {
		name = brand + " " + tmpl.suffix
	}

	price := round2(19.99 + g.rng.Float64()*(1999.99-19.99))

	var discount *int
	var originalPrice *float64
	if g.chance(0.3) {
		d := 5 + g.rng.Intn(46)
		op := round2(price / (1 - float64(d)/100))
		discount = &d
		originalPrice = &op
	}

	rating := math.Round((3.0+g.rng.Float64()*2.0)*10) / 10
	reviewCount := 5 + g.rng.Intn(4996)
	inStock := g.chance(0.85)
	stockCount := 0
	if inStock {
		stockCount = 1 + g.rng.Intn(500)
	}

	var tags []string
	if discount != nil {
		tags = append(tags, "On Sale")
	}
	if rating >= 4.5 {
		tags = append(tags, "Bestseller")
	}
	if g.chance(0.2) {
		tags = append(tags, "New Arrival")
	}
	if g.chance(0.15) {
		tags = append(tags, "Limited Edition")
	}
	if isElectronics && g.chance(0.3) {
		tags = append(tags, "Free Shipping")
	}
	if tags == nil {
		tags = []string{}
	}

	var specs map[string]string
	if isElectronics {
		specs = map[string]string{
			"Weight":   fmt.Sprintf("%.1f kg", 0.1+g.rng.Float64()*4.9),
			"Warranty": fmt.Sprintf("%d years", 1+g.rng.Intn(3)),
			"Model":    fmt.Sprintf("%s-%06d", brand, g.rng.Intn(1000000)),
		}
	}

	color, size := "", ""
	if isClothing {
		color = pick(g.rng, colors)
		size = pick(g.rng, sizes)
	}

	imageURL := fmt.Sprintf("https://picsum.photos/seed/%d/400/400", index)
	now := time.Now().UTC()
	createdAt := now.Add(-time.Duration(g.rng.Intn(730*24)) * time.Hour)

	return domain.Product{
		ID:             fmt.Sprintf("product-%d", index+1),
		Name:           name,
		Description:    g.description(name),
		Brand:          brand,
		Category:       category,
		Subcategory:    subcategory,
		Price:          price,
		OriginalPrice:  originalPrice,
		Discount:       discount,
		Rating:         rating,
		ReviewCount:    reviewCount,
		ImageURL:       imageURL,
		Images:         []string{imageURL, fmt.Sprintf("https://picsum.photos/seed/%d/400/400", index+1000)},
		InStock:        inStock,
		StockCount:     stockCount,
		Tags:           tags,
		Features:       tmpl.features,
		Specifications: specs,
		Color:          color,
		Size:           size,
		CreatedAt:      createdAt,
		UpdatedAt:      now,
	}
}

func (g *Generator) description(name string) string {
	return fmt.Sprintf("%s, the %s is %s",
		pick(g.rng, descriptionOpeners),
		name,
		pick(g.rng, descriptionClosers),
	)
}

func (g *Generator) chance(p float64) bool {
	return g.rng.Float64() < p
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

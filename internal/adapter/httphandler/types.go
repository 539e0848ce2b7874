package httphandler

import "github.com/niksmo/snublejuice/internal/core/domain"

type (
	Product struct {
		ID          int64     `json:"id"`
		Name        string    `json:"name"`
		URL         string    `json:"url"`
		Description *string   `json:"description"`
		Category    *string   `json:"category"`
		Country     *string   `json:"country"`
		Price       *float64  `json:"price"`
		Volume      float64   `json:"volume"`
		Alcohol     float64   `json:"alcohol"`
		Year        *int      `json:"year"`
		Prices      []float64 `json:"prices"`
		Stores      []string  `json:"stores"`
		Taxfree     *Taxfree  `json:"taxfree,omitempty"`
	}

	Taxfree struct {
		ID      int64    `json:"id"`
		Name    string   `json:"name"`
		Price   float64  `json:"price"`
		Volume  float64  `json:"volume"`
		Alcohol float64  `json:"alcohol"`
		URL     string   `json:"url"`
		Stores  []string `json:"stores"`
	}

	Stores struct {
		Vinmonopolet []string `json:"vinmonopolet"`
		Taxfree      []string `json:"taxfree"`
	}
)

type (
	RegisterRequest struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Notify   bool   `json:"notify"`
	}

	Credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	FavouriteRequest struct {
		Index int64 `json:"index"`
	}

	NotificationRequest struct {
		Notify bool `json:"notify"`
	}

	Profile struct {
		Username   string  `json:"username"`
		Email      string  `json:"email"`
		Notify     bool    `json:"notify"`
		Favourites []int64 `json:"favourites"`
	}

	Message struct {
		Message  string `json:"message"`
		Username string `json:"username,omitempty"`
		Added    *bool  `json:"added,omitempty"`
	}

	ErrorResponse struct {
		Error string `json:"error"`
	}
)

func fromDomainProducts(ps []domain.Product) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = Product{
			ID:          p.ID,
			Name:        p.Name,
			URL:         p.URL,
			Description: p.Description,
			Category:    p.Category,
			Country:     p.Country,
			Price:       p.Price,
			Volume:      p.Volume,
			Alcohol:     p.Alcohol,
			Year:        p.Year,
			Prices:      p.Prices,
			Stores:      p.Stores,
		}
		if tf := p.Taxfree; tf != nil {
			out[i].Taxfree = &Taxfree{
				ID:      tf.ID,
				Name:    tf.Name,
				Price:   tf.Price,
				Volume:  tf.Volume,
				Alcohol: tf.Alcohol,
				URL:     tf.URL,
				Stores:  tf.Stores,
			}
		}
	}
	return out
}

func fromDomainStores(s domain.StoresData) Stores {
	return Stores{
		Vinmonopolet: nonNil(s.Vinmonopolet),
		Taxfree:      nonNil(s.Taxfree),
	}
}

func fromDomainUser(u domain.UserData) Profile {
	return Profile{
		Username:   u.Username,
		Email:      u.Email,
		Notify:     u.Notify,
		Favourites: u.Favourites,
	}
}

func nonNil(vs []string) []string {
	if vs == nil {
		return []string{}
	}
	return vs
}

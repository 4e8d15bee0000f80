package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fairyhunter13/inventory-risk-advisor/internal/config"
	httpopenapi "github.com/fairyhunter13/inventory-risk-advisor/internal/http/openapi"
	"github.com/fairyhunter13/inventory-risk-advisor/internal/intake"
	"github.com/fairyhunter13/inventory-risk-advisor/internal/inventory"
	"github.com/fairyhunter13/inventory-risk-advisor/internal/model"
	"github.com/fairyhunter13/inventory-risk-advisor/internal/obs"
	"github.com/fairyhunter13/inventory-risk-advisor/internal/query"
)

const maxBodyBytes = 1 << 16

type App struct {
	Cfg     config.Config
	Inv     *inventory.Service
	started time.Time
}

func NewApp(cfg config.Config, inv *inventory.Service) *App {
	return &App{Cfg: cfg, Inv: inv, started: time.Now()}
}

// itemView is an item as the table renders it.
type itemView struct {
	model.Item
	PriceDisplay string `json:"priceDisplay"`
	StockStatus  string `json:"stockStatus"`
}

func renderItem(it model.Item) itemView {
	status := "Out of Stock"
	if it.Quantity > 0 {
		status = "In Stock"
	}
	return itemView{Item: it, PriceDisplay: fmt.Sprintf("$%.2f", it.Price), StockStatus: status}
}

func renderItems(items []model.Item) []itemView {
	out := make([]itemView, len(items))
	for i, it := range items {
		out[i] = renderItem(it)
	}
	return out
}

type created struct {
	Item      itemView `json:"item"`
	Warnings  []string `json:"warnings"`
	RequestID string   `json:"request_id"`
}

type listing struct {
	Items      []itemView  `json:"items"`
	Categories []string    `json:"categories"`
	Category   string      `json:"category"`
	Search     string      `json:"search"`
	Sort       string      `json:"sort"`
	Stats      query.Stats `json:"stats"`
}

// formValue accepts a JSON string, number or null as raw form text.
type formValue string

func (v *formValue) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*v = ""
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*v = formValue(str)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", s)
		}
		*v = formValue(n.String())
	}
	return nil
}

type itemRequest struct {
	Name          formValue `json:"name"`
	Category      formValue `json:"category"`
	Price         formValue `json:"price"`
	Quantity      formValue `json:"quantity"`
	MonthlyDemand formValue `json:"monthlyDemand"`
	RestockTime   formValue `json:"restockTime"`
}

func (r itemRequest) raw() intake.RawInput {
	return intake.RawInput{
		Name:          string(r.Name),
		Category:      string(r.Category),
		Price:         string(r.Price),
		Quantity:      string(r.Quantity),
		MonthlyDemand: string(r.MonthlyDemand),
		RestockTime:   string(r.RestockTime),
	}
}

func decodeItemRequest(w http.ResponseWriter, r *http.Request) (intake.RawInput, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/json":
		var req itemRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return intake.RawInput{}, err
		}
		return req.raw(), nil
	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return intake.RawInput{}, err
		}
		return intake.RawInput{
			Name:          r.PostForm.Get("name"),
			Category:      r.PostForm.Get("category"),
			Price:         r.PostForm.Get("price"),
			Quantity:      r.PostForm.Get("quantity"),
			MonthlyDemand: r.PostForm.Get("monthlyDemand"),
			RestockTime:   r.PostForm.Get("restockTime"),
		}, nil
	default:
		return intake.RawInput{}, errUnsupportedMedia
	}
}

var errUnsupportedMedia = errors.New("expected application/json or application/x-www-form-urlencoded")

func (a *App) itemsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createItem(w, r)
	case http.MethodGet:
		a.listItems(w, r)
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) createItem(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeItemRequest(w, r)
	if errors.Is(err, errUnsupportedMedia) {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", err.Error())
		return
	}
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	res, err := a.Inv.AddItem(r.Context(), raw)
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		obs.Logger.Info("item_rejected", "request_id", RequestIDFromContext(r.Context()), "field", ve.Field, "reason", ve.Reason)
		writeValidationError(w, ve)
		return
	}
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	w.Header().Set("Location", "/items/"+strconv.FormatInt(res.Item.ID, 10))
	writeJSON(w, http.StatusCreated, created{
		Item:      renderItem(res.Item),
		Warnings:  res.Warnings,
		RequestID: RequestIDFromContext(r.Context()),
	})
}

func (a *App) listItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key, ok := query.ParseSortKey(q.Get("sort"))
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "invalid_sort", "sort must be one of added, risk, name, quantity")
		return
	}
	c := query.Criteria{Search: q.Get("search"), Category: q.Get("category"), Sort: key}
	v := a.Inv.SetFilter(c)
	writeJSON(w, http.StatusOK, listing{
		Items:      renderItems(v.Items),
		Categories: v.Categories,
		Category:   v.Category,
		Search:     c.Search,
		Sort:       string(c.Sort),
		Stats:      v.Stats,
	})
}

func (a *App) itemHandler(w http.ResponseWriter, r *http.Request) {
	const prefix = "/items/"
	raw := strings.TrimPrefix(r.URL.Path, prefix)
	if raw == "" || strings.Contains(raw, "/") {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_id", "id must be an integer")
		return
	}
	switch r.Method {
	case http.MethodGet:
		it, ok := a.Inv.Get(id)
		if !ok {
			WriteJSONError(w, http.StatusNotFound, "not_found", "")
			return
		}
		writeJSON(w, http.StatusOK, renderItem(it))
	case http.MethodDelete:
		_, warnings := a.Inv.DeleteItem(r.Context(), id)
		for _, msg := range warnings {
			w.Header().Add("Warning", `199 - "`+msg+`"`)
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	selected := a.Inv.Criteria().Category
	if r.URL.Query().Has("selected") {
		selected = r.URL.Query().Get("selected")
	}
	cats, sel := a.Inv.Categories(selected)
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats, "selected": sel})
}

func (a *App) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	writeJSON(w, http.StatusOK, a.Inv.Stats())
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	c := a.Inv.Counters()
	m := map[string]any{
		"items":            a.Inv.Len(),
		"items_added":      c.Added,
		"items_removed":    c.Removed,
		"items_rejected":   c.Rejected,
		"persist_failures": c.PersistFailure,
		"storage_driver":   a.Cfg.StorageDriver,
		"uptime_sec":       time.Since(a.started).Seconds(),
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Inventory Risk Advisor API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}

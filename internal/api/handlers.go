package api

import (
	"errors"
	"net/http"
	"salarydash/internal/engine"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	data atomic.Pointer[engine.ColumnStore]
	opts engine.Options
}

// NewHandler accepts a nil store; the API answers 503 until SetData is called.
func NewHandler(store *engine.ColumnStore, opts engine.Options) *Handler {
	h := &Handler{opts: opts}
	if store != nil {
		h.data.Store(store)
	}
	return h
}

// SetData swaps in a freshly loaded dataset.
func (h *Handler) SetData(store *engine.ColumnStore) {
	h.data.Store(store)
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/health", h.GetHealth)
	api.GET("/filters", h.GetFilters)
	api.GET("/dashboard", h.GetDashboard)
	api.POST("/dashboard", h.PostDashboard)
	api.GET("/kpis", h.GetKPIs)
	api.GET("/roles/top", h.GetTopRoles)
	api.GET("/remote", h.GetRemoteTypes)
	api.GET("/countries", h.GetCountrySalaries)
	api.GET("/salaries/histogram", h.GetHistogram)
	api.GET("/records", h.GetRecords)
}

// --- HELPERS ---

func (h *Handler) store() (*engine.ColumnStore, error) {
	store := h.data.Load()
	if store == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "dataset is still loading")
	}
	return store, nil
}

// view resolves the filter query parameters against the current dataset.
func (h *Handler) view(c echo.Context) (engine.View, error) {
	store, err := h.store()
	if err != nil {
		return engine.View{}, err
	}
	spec, err := filterFromQuery(c, store)
	if err != nil {
		return engine.View{}, err
	}
	return store.Apply(spec), nil
}

// filterFromQuery starts from every value and narrows each column whose
// parameter is present. A present but blank parameter selects nothing.
func filterFromQuery(c echo.Context, store *engine.ColumnStore) (engine.FilterSpec, error) {
	spec := store.FullFilter()
	params := c.QueryParams()

	if vals, ok := params["year"]; ok {
		years := []int{}
		for _, v := range splitValues(vals) {
			y, err := engine.ParseYear(v)
			if err != nil {
				return spec, echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			years = append(years, y)
		}
		spec.Years = years
	}
	if vals, ok := params["seniority"]; ok {
		spec.Seniorities = splitValues(vals)
	}
	if vals, ok := params["contract_type"]; ok {
		spec.ContractTypes = splitValues(vals)
	}
	if vals, ok := params["company_size"]; ok {
		spec.CompanySizes = splitValues(vals)
	}
	return spec, nil
}

// splitValues accepts repeated parameters as well as comma separated lists.
func splitValues(vals []string) []string {
	out := []string{}
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func getIntParam(c echo.Context, name string, defaultValue int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

// getPaginationParams caps limit and offset at total.
func getPaginationParams(c echo.Context, defaultLimit, total int) (int, int) {
	limit := getIntParam(c, "limit", defaultLimit)
	if limit > total {
		limit = total
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	return limit, offset
}

func noData(c echo.Context, err error) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"empty":   true,
		"message": err.Error(),
	})
}

// --- HANDLERS ---

func (h *Handler) GetHealth(c echo.Context) error {
	store := h.data.Load()
	records := 0
	if store != nil {
		records = store.Len()
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"ready":   store != nil,
		"records": records,
	})
}

// distinct values per filter column
func (h *Handler) GetFilters(c echo.Context) error {
	store, err := h.store()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, store.Options())
}

func (h *Handler) GetDashboard(c echo.Context) error {
	view, err := h.view(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view.Aggregate(h.opts))
}

// filterRequest mirrors engine.FilterSpec; an omitted column means every value.
type filterRequest struct {
	Years         []int    `json:"year"`
	Seniorities   []string `json:"seniority"`
	ContractTypes []string `json:"contract_type"`
	CompanySizes  []string `json:"company_size"`
}

func (r filterRequest) resolve(store *engine.ColumnStore) engine.FilterSpec {
	spec := store.FullFilter()
	if r.Years != nil {
		spec.Years = r.Years
	}
	if r.Seniorities != nil {
		spec.Seniorities = r.Seniorities
	}
	if r.ContractTypes != nil {
		spec.ContractTypes = r.ContractTypes
	}
	if r.CompanySizes != nil {
		spec.CompanySizes = r.CompanySizes
	}
	return spec
}

func (h *Handler) PostDashboard(c echo.Context) error {
	store, err := h.store()
	if err != nil {
		return err
	}
	var req filterRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, store.Apply(req.resolve(store)).Aggregate(h.opts))
}

func (h *Handler) GetKPIs(c echo.Context) error {
	view, err := h.view(c)
	if err != nil {
		return err
	}
	kpis, err := engine.ComputeKPIs(view)
	if errors.Is(err, engine.ErrEmptyView) {
		return noData(c, err)
	}
	return c.JSON(http.StatusOK, kpis)
}

// returns top 10 roles by mean salary unless limit says otherwise
func (h *Handler) GetTopRoles(c echo.Context) error {
	view, err := h.view(c)
	if err != nil {
		return err
	}
	if view.Empty() {
		return noData(c, engine.ErrEmptyView)
	}
	n := getIntParam(c, "limit", h.opts.TopRoles)
	return c.JSON(http.StatusOK, engine.TopRolesByMeanSalary(view, n))
}

func (h *Handler) GetRemoteTypes(c echo.Context) error {
	view, err := h.view(c)
	if err != nil {
		return err
	}
	if view.Empty() {
		return noData(c, engine.ErrEmptyView)
	}
	return c.JSON(http.StatusOK, engine.RemoteTypeDistribution(view))
}

func (h *Handler) GetCountrySalaries(c echo.Context) error {
	view, err := h.view(c)
	if err != nil {
		return err
	}
	if view.Empty() {
		return noData(c, engine.ErrEmptyView)
	}
	role := c.QueryParam("role")
	if role == "" {
		role = h.opts.CountryRole
	}
	if role == "" {
		role = engine.DefaultCountryRole
	}
	countries, err := engine.MeanSalaryByCountry(view, role)
	if errors.Is(err, engine.ErrNoRoleData) {
		return noData(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"role": role,
		"data": countries,
	})
}

func (h *Handler) GetHistogram(c echo.Context) error {
	view, err := h.view(c)
	if err != nil {
		return err
	}
	if view.Empty() {
		return noData(c, engine.ErrEmptyView)
	}
	bins := getIntParam(c, "bins", h.opts.HistogramBins)
	return c.JSON(http.StatusOK, engine.SalaryHistogram(view, bins))
}

// detailed rows of the filtered view, paginated
func (h *Handler) GetRecords(c echo.Context) error {
	view, err := h.view(c)
	if err != nil {
		return err
	}
	total := view.Len()
	limit, offset := getPaginationParams(c, 100, total)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   view.Records(offset, limit),
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

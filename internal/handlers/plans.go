package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	powerwizard "power_wizard"
	"power_wizard/internal/models"
	"power_wizard/internal/planfilter"
	"power_wizard/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      Browse the plan catalog
// @Description  Filters and sorts the catalog without a session. Bills are quoted at usage (default 1000 kWh).
// @Tags         plans
// @Produce      json
// @Param        search       query     string   false  "Matches plan name or provider"
// @Param        provider     query     []string false  "Provider filter (repeat or comma separated)"
// @Param        show_all     query     bool     false  "Ignore preference filters"
// @Param        sort         query     string   false  "Sort order"  Enums(bestMatch,price,rating,bill)
// @Param        term         query     string   false  "Contract term"  Enums(month-to-month,6,12,24,36)
// @Param        renewable    query     bool     false  "Renewable plans only"
// @Param        guarantee    query     bool     false  "Satisfaction guarantee only"
// @Param        no_deposit   query     bool     false  "No-deposit plans only"
// @Param        max_rate     query     number   false  "Maximum rate in cents per kWh"
// @Param        usage        query     int      false  "Monthly usage in kWh"
// @Success      200  {object}  service.Comparison
// @Failure      400  {object}  power_wizard.ErrorResponse
// @Router       /api/v1/plans [get]
func (h *Handler) browsePlans(c *gin.Context) {
	q, err := parseCatalogQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, powerwizard.ErrorResponse{Error: err.Error()})
		return
	}
	cmp, err := h.services.Plans.Browse(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, "plans_browse_failed", err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

// @Summary      Compare plans side by side
// @Tags         plans
// @Produce      json
// @Param        ids    query     string  true   "Two or three comma separated plan ids"
// @Param        usage  query     int     false  "Monthly usage in kWh"
// @Success      200  {array}   service.PlanQuote
// @Failure      400  {object}  power_wizard.ErrorResponse
// @Failure      404  {object}  power_wizard.ErrorResponse
// @Router       /api/v1/plans/compare [get]
func (h *Handler) comparePlans(c *gin.Context) {
	usage, err := queryInt(c, "usage")
	if err != nil {
		c.JSON(http.StatusBadRequest, powerwizard.ErrorResponse{Error: err.Error()})
		return
	}
	ids := splitList(c.QueryArray("ids"))
	out, err := h.services.Plans.SideBySide(c.Request.Context(), ids, usage)
	if err != nil {
		h.respondError(c, "plans_compare_failed", err, "ids", ids)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary      Estimate usage and bills
// @Tags         plans
// @Produce      json
// @Param        sqft       query     number  true   "Square footage"
// @Param        occupants  query     int     false  "Occupants"
// @Param        property   query     string  false  "Property type"  Enums(apartment,house,condo,townhome)
// @Param        ev         query     bool    false  "Has an electric vehicle"
// @Param        pool       query     bool    false  "Has a pool"
// @Param        solar      query     bool    false  "Has solar panels"
// @Success      200  {object}  service.Estimate
// @Failure      400  {object}  power_wizard.ErrorResponse
// @Router       /api/v1/estimate [get]
func (h *Handler) estimate(c *gin.Context) {
	profile, pt, err := parseHomeProfile(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, powerwizard.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.services.Plans.Estimate(profile, pt))
}

// @Summary      Plans for the session
// @Description  The comparison surface: the session's preferences applied at its estimated usage.
// @Tags         wizard
// @Produce      json
// @Param        search    query     string   false  "Matches plan name or provider"
// @Param        provider  query     []string false  "Provider filter"
// @Param        show_all  query     bool     false  "Ignore preference filters"
// @Param        sort      query     string   false  "Sort order"  Enums(bestMatch,price,rating,bill)
// @Success      200  {object}  service.Comparison
// @Failure      400  {object}  power_wizard.ErrorResponse
// @Failure      401  {object}  power_wizard.ErrorResponse
// @Failure      404  {object}  power_wizard.ErrorResponse
// @Router       /api/v1/wizard/plans [get]
// @Security     BearerAuth
func (h *Handler) sessionPlans(c *gin.Context) {
	q, err := parseComparisonQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, powerwizard.ErrorResponse{Error: err.Error()})
		return
	}
	cmp, err := h.services.Plans.Compare(c.Request.Context(), sessionID(c), q)
	if err != nil {
		h.respondError(c, "wizard_plans_failed", err, "session_id", sessionID(c))
		return
	}
	c.JSON(http.StatusOK, cmp)
}

// ----------- query parsing -----------

func parseComparisonQuery(c *gin.Context) (service.ComparisonQuery, error) {
	showAll, err := queryBool(c, "show_all")
	if err != nil {
		return service.ComparisonQuery{}, err
	}
	return service.ComparisonQuery{
		Search:    strings.TrimSpace(c.Query("search")),
		Providers: splitList(c.QueryArray("provider")),
		ShowAll:   showAll,
		Sort:      planfilter.SortOption(c.Query("sort")),
	}, nil
}

func parseCatalogQuery(c *gin.Context) (service.CatalogQuery, error) {
	cq, err := parseComparisonQuery(c)
	if err != nil {
		return service.CatalogQuery{}, err
	}
	q := service.CatalogQuery{ComparisonQuery: cq}

	if term := strings.TrimSpace(c.Query("term")); term != "" {
		ct := models.ContractTerm(term)
		q.Preferences.ContractTerm = &ct
	}
	if q.Preferences.IsRenewable, err = queryBool(c, "renewable"); err != nil {
		return q, err
	}
	if q.Preferences.HasSatisfactionGuarantee, err = queryBool(c, "guarantee"); err != nil {
		return q, err
	}
	if q.Preferences.RequiresNoDeposit, err = queryBool(c, "no_deposit"); err != nil {
		return q, err
	}
	if s := c.Query("max_rate"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return q, fmt.Errorf("invalid 'max_rate' %q", s)
		}
		q.Preferences.MaxRate = &v
	}
	if q.Usage, err = queryInt(c, "usage"); err != nil {
		return q, err
	}
	return q, nil
}

func parseHomeProfile(c *gin.Context) (models.HomeProfile, models.PropertyType, error) {
	var (
		p   models.HomeProfile
		err error
	)
	s := c.Query("sqft")
	if s == "" {
		return p, "", fmt.Errorf("'sqft' is required")
	}
	if p.SquareFootage, err = strconv.ParseFloat(s, 64); err != nil || p.SquareFootage < 0 {
		return p, "", fmt.Errorf("invalid 'sqft' %q", s)
	}
	if p.Occupants, err = queryInt(c, "occupants"); err != nil {
		return p, "", err
	}
	if p.HasEV, err = queryBool(c, "ev"); err != nil {
		return p, "", err
	}
	if p.HasPool, err = queryBool(c, "pool"); err != nil {
		return p, "", err
	}
	if p.HasSolar, err = queryBool(c, "solar"); err != nil {
		return p, "", err
	}

	pt := models.PropertyHouse
	if s := strings.TrimSpace(c.Query("property")); s != "" {
		pt = models.PropertyType(strings.ToLower(s))
		if !pt.Valid() {
			return p, "", fmt.Errorf("invalid 'property' %q", s)
		}
	}
	return p, pt, nil
}

// queryInt reads a non-negative integer; missing means 0.
func queryInt(c *gin.Context, key string) (int, error) {
	s := c.Query(key)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid '%s' %q", key, s)
	}
	return v, nil
}

func queryBool(c *gin.Context, key string) (bool, error) {
	s := c.Query(key)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid '%s' %q", key, s)
	}
	return v, nil
}

// splitList flattens repeated and comma separated values, dropping blanks.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

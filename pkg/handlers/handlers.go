package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/arnavshah/schedule-composer-api/pkg/auth"
	"github.com/arnavshah/schedule-composer-api/pkg/composer"
	"github.com/arnavshah/schedule-composer-api/pkg/database"
	"github.com/arnavshah/schedule-composer-api/pkg/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Handler contains dependencies for the route handlers
type Handler struct {
	DB       *gorm.DB
	Sessions *composer.Store
}

// AuthMiddleware verifies the JWT token for admin routes
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Strip "Bearer " if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := auth.VerifyToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Next()
	}
}

// APIKeyMiddleware verifies the API key for composer routes using HMAC
func (h *Handler) APIKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("Authorization")
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "API Key required"})
			c.Abort()
			return
		}

		if len(key) > 7 && key[:7] == "Bearer " {
			key = key[7:]
		}

		userID, err := auth.VerifyHMACKey(key)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API Key signature"})
			c.Abort()
			return
		}

		// Fetch or create API key record to track usage
		var apiKey database.APIKey
		h.DB.Where(database.APIKey{Key: key}).FirstOrCreate(&apiKey, database.APIKey{
			Key:       key,
			Name:      userID,
			RateLimit: 10000,
		})

		c.Set("apiKey", &apiKey)
		c.Set("userID", userID)
		c.Next()
	}
}

// RecordUsage records API usage in the database using an efficient upsert
func (h *Handler) RecordUsage(c *gin.Context, sessionsCreated, shiftsComposed int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := time.Now().Format("2006-01-02")

	// Use OnConflict for a single-query upsert (supported by both Postgres and SQLite)
	h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":    gorm.Expr("request_count + ?", 1),
			"sessions_created": gorm.Expr("sessions_created + ?", sessionsCreated),
			"shifts_composed":  gorm.Expr("shifts_composed + ?", shiftsComposed),
		}),
	}).Create(&database.APIUsage{
		KeyID:           apiKey.ID,
		Date:            today,
		RequestCount:    1,
		SessionsCreated: sessionsCreated,
		ShiftsComposed:  shiftsComposed,
	})
}

// persistDraft upserts the session's latest emitted payload. This is the
// host-side persistence the composer core deliberately does not do.
func (h *Handler) persistDraft(sessionID string, p models.SchedulePayload) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}

	roleType := string(models.RolePartTime)
	if p.Type == models.PayloadFullTime {
		roleType = string(models.RoleFullTime)
	}

	h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"role_type":     roleType,
			"schedule_type": p.Type,
			"payload":       string(raw),
			"shift_count":   len(p.Shifts),
			"updated_at":    time.Now(),
		}),
	}).Create(&database.ScheduleDraft{
		SessionID:    sessionID,
		RoleType:     roleType,
		ScheduleType: p.Type,
		Payload:      string(raw),
		ShiftCount:   len(p.Shifts),
		UpdatedAt:    time.Now(),
	})
}

func (h *Handler) session(c *gin.Context) (*composer.Session, bool) {
	s, ok := h.Sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return s, true
}

// CreateSession opens a composition session for the given role type and
// returns its initial payload
func (h *Handler) CreateSession(c *gin.Context) {
	var req struct {
		RoleType string `json:"role_type" binding:"required,oneof=full_time part_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s := h.Sessions.Create(models.RoleType(req.RoleType), h.persistDraft)
	h.RecordUsage(c, 1, 0)

	c.JSON(http.StatusCreated, gin.H{
		"session_id":   s.ID,
		"role_type":    req.RoleType,
		"payload":      s.Latest(),
		"date_markers": gin.H{},
	})
}

// GetSession returns the session's full editing state: the canonical
// payload plus what the UI needs to render each editor and the calendar
func (h *Handler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var roleType models.RoleType
	var subMode models.SubMode
	var dayMap [7]models.DaySlot
	var recurring models.RecurringConfig
	var shifts []models.Shift
	var dates []string
	var markers map[string]models.DateMarker

	payload := s.Do(func(cp *composer.Composer) {
		roleType = cp.RoleType()
		subMode = cp.SubMode()
		dayMap = cp.DayMap()
		recurring = cp.Recurring()
		shifts = cp.Shifts()
		dates = cp.SortedDates()
		markers = cp.DateMarkers()
	})

	c.JSON(http.StatusOK, gin.H{
		"session_id":      s.ID,
		"role_type":       roleType,
		"sub_mode":        subMode,
		"payload":         payload,
		"day_map":         dayMap,
		"recurring":       recurring,
		"shifts":          shifts,
		"sorted_dates":    dates,
		"date_markers":    markers,
		"currency_symbol": currencySymbol(),
	})
}

// DeleteSession drops a session from the registry. The persisted draft
// snapshot is kept.
func (h *Handler) DeleteSession(c *gin.Context) {
	h.Sessions.Delete(c.Param("id"))
	h.RecordUsage(c, 0, 0)
	c.JSON(http.StatusOK, gin.H{"message": "Session closed"})
}

// currencySymbol is label-only display configuration; it never touches
// the schedule data model
func currencySymbol() string {
	if sym := strings.TrimSpace(os.Getenv("CURRENCY_SYMBOL")); sym != "" {
		return sym
	}
	return "$"
}

func (h *Handler) respondMutation(c *gin.Context, s *composer.Session, fn func(*composer.Composer)) {
	var markers map[string]models.DateMarker
	payload := s.Do(func(cp *composer.Composer) {
		fn(cp)
		markers = cp.DateMarkers()
	})

	c.JSON(http.StatusOK, gin.H{
		"payload":      payload,
		"date_markers": markers,
	})
}

// SetRoleType switches the session's top-level editor
func (h *Handler) SetRoleType(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		RoleType string `json:"role_type" binding:"required,oneof=full_time part_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.RecordUsage(c, 0, 0)
	h.respondMutation(c, s, func(cp *composer.Composer) {
		cp.SetRoleType(models.RoleType(req.RoleType))
	})
}

// SetSubMode switches a part-time session between the recurring and
// specific-dates editors
func (h *Handler) SetSubMode(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		SubMode string `json:"sub_mode" binding:"required,oneof=recurring specific"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.RecordUsage(c, 0, 0)
	h.respondMutation(c, s, func(cp *composer.Composer) {
		cp.SetSubMode(models.SubMode(req.SubMode))
	})
}

// ToggleFullTimeDay flips one day of the full-time day map
func (h *Handler) ToggleFullTimeDay(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Day int `json:"day" binding:"min=0,max=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.RecordUsage(c, 0, 0)
	h.respondMutation(c, s, func(cp *composer.Composer) {
		cp.ToggleFullTimeDay(req.Day)
	})
}

// SetFullTimeTime overwrites the start or end time of one full-time day
func (h *Handler) SetFullTimeTime(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Day   int    `json:"day" binding:"min=0,max=6"`
		Field string `json:"field" binding:"required,oneof=start_time end_time"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.RecordUsage(c, 0, 0)
	h.respondMutation(c, s, func(cp *composer.Composer) {
		cp.SetFullTimeTime(req.Day, req.Field, req.Value)
	})
}

// ToggleRecurringDay adds or removes one weekday of the recurring pattern
func (h *Handler) ToggleRecurringDay(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Day int `json:"day" binding:"min=0,max=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.RecordUsage(c, 0, 0)
	h.respondMutation(c, s, func(cp *composer.Composer) {
		cp.ToggleRecurringDay(req.Day)
	})
}

// SetRecurringField overwrites one scalar field of the shared recurring
// configuration
func (h *Handler) SetRecurringField(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Name  string `json:"name" binding:"required,oneof=start_time end_time headcount hourly_rate completion_reward"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.RecordUsage(c, 0, 0)
	h.respondMutation(c, s, func(cp *composer.Composer) {
		cp.SetRecurringField(req.Name, req.Value)
	})
}

// ToggleDate is the calendar tap: a first tap seeds the date with one
// default shift, a second tap clears every shift on it
func (h *Handler) ToggleDate(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Date string `json:"date" binding:"required,datetime=2006-01-02"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shiftsDelta := 0
	h.respondMutation(c, s, func(cp *composer.Composer) {
		before := len(cp.Shifts())
		cp.SelectDate(req.Date)
		if after := len(cp.Shifts()); after > before {
			shiftsDelta = after - before
		}
	})
	h.RecordUsage(c, 0, shiftsDelta)
}

// AddShift appends another default shift to an already-selected date
func (h *Handler) AddShift(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Date string `json:"date" binding:"required,datetime=2006-01-02"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shiftsDelta := 0
	h.respondMutation(c, s, func(cp *composer.Composer) {
		before := len(cp.Shifts())
		cp.AddShift(req.Date)
		shiftsDelta = len(cp.Shifts()) - before
	})
	h.RecordUsage(c, 0, shiftsDelta)
}

// UpdateShift overwrites one scalar field of one shift
func (h *Handler) UpdateShift(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req struct {
		Field string `json:"field" binding:"required,oneof=start_time end_time headcount hourly_rate completion_reward"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shiftID := c.Param("shiftID")
	h.RecordUsage(c, 0, 0)
	h.respondMutation(c, s, func(cp *composer.Composer) {
		cp.UpdateShift(shiftID, req.Field, req.Value)
	})
}

// RemoveShift deletes one shift by identifier. Deleting an unknown shift
// is a no-op, so repeated deletes are safe.
func (h *Handler) RemoveShift(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	shiftID := c.Param("shiftID")
	h.RecordUsage(c, 0, 0)
	h.respondMutation(c, s, func(cp *composer.Composer) {
		cp.RemoveShift(shiftID)
	})
}

package access

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"workspace-access/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Admin de la organización
	r.Route("/organizations/{orgID}", func(or chi.Router) {
		or.Route("/access", func(ar chi.Router) {
			ar.Post("/", grantAccessHandler(svc))
			ar.Get("/", listAccessHandler(svc))
			ar.Get("/stats", statsHandler(svc))
			ar.Post("/bulk", bulkGrantHandler(svc))
			ar.Post("/bulk-revoke", bulkRevokeHandler(svc))
			ar.Post("/cleanup-expired", cleanupExpiredHandler(svc))
		})
		or.Get("/users/{userID}/access", userAccessHandler(svc))
		or.Get("/resources/{resourceType}/{resourceID}/access", resourceAccessHandler(svc))
	})

	r.Get("/access/check", checkAccessHandler(svc))

	r.Route("/access/{accessID}", func(gr chi.Router) {
		gr.Get("/", getAccessHandler(svc))
		gr.Patch("/", updatePermissionHandler(svc))
		gr.Post("/revoke", revokeHandler(svc))
		gr.Post("/restore", restoreHandler(svc))
		gr.Post("/delegations", delegateHandler(svc))
		gr.Delete("/delegations/{userID}", revokeDelegationHandler(svc))
		gr.Post("/tags", addTagHandler(svc))
		gr.Delete("/tags/{tag}", removeTagHandler(svc))
		gr.Post("/usage", recordUsageHandler(svc))
		gr.Get("/audit", auditHistoryHandler(svc))
	})

	r.Get("/me/access", myAccessHandler(svc))
}

type metadataResponse struct {
	ResourceName string `json:"resource_name,omitempty"`
	ResourcePath string `json:"resource_path,omitempty"`
	Department   string `json:"department,omitempty"`
	Team         string `json:"team,omitempty"`
	Project      string `json:"project,omitempty"`
}

type delegationResponse struct {
	TargetUserID string     `json:"target_user_id"`
	Permission   Permission `json:"permission"`
	DelegatedBy  string     `json:"delegated_by"`
	DelegatedAt  time.Time  `json:"delegated_at"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Revoked      bool       `json:"revoked"`
	RevokedAt    *time.Time `json:"revoked_at,omitempty"`
}

type grantResponse struct {
	ID               string               `json:"id"`
	OrganizationID   string               `json:"organization_id"`
	UserID           string               `json:"user_id"`
	ResourceType     ResourceType         `json:"resource_type"`
	ResourceID       string               `json:"resource_id"`
	Permission       Permission           `json:"permission"`
	AccessType       AccessType           `json:"access_type"`
	GrantedBy        string               `json:"granted_by"`
	GrantedAt        time.Time            `json:"granted_at"`
	InheritedFrom    ResourceType         `json:"inherited_from,omitempty"`
	InheritedFromID  string               `json:"inherited_from_id,omitempty"`
	IsInherited      bool                 `json:"is_inherited"`
	CanDelegate      bool                 `json:"can_delegate"`
	Delegations      []delegationResponse `json:"delegations"`
	ExpiresAt        *time.Time           `json:"expires_at,omitempty"`
	IsExpired        bool                 `json:"is_expired"`
	IsActive         bool                 `json:"is_active"`
	RevokedAt        *time.Time           `json:"revoked_at,omitempty"`
	RevokedBy        string               `json:"revoked_by,omitempty"`
	RevocationReason string               `json:"revocation_reason,omitempty"`
	RestoredAt       *time.Time           `json:"restored_at,omitempty"`
	RestoredBy       string               `json:"restored_by,omitempty"`
	Metadata         metadataResponse     `json:"metadata"`
	Tags             []string             `json:"tags"`
	Notes            string               `json:"notes,omitempty"`
	AccessCount      int64                `json:"access_count"`
	LastAccessedAt   *time.Time           `json:"last_accessed_at,omitempty"`
	AuditEntries     int                  `json:"audit_entries"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

type bulkFailureResponse struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type grantAccessRequest struct {
	UserID           string     `json:"user_id"`
	ResourceType     string     `json:"resource_type"`
	ResourceID       string     `json:"resource_id"`
	Permission       string     `json:"permission"`
	AccessType       string     `json:"access_type"`
	CanDelegate      bool       `json:"can_delegate"`
	ExpiresAt        *time.Time `json:"expires_at"`
	Notes            string     `json:"notes"`
	Tags             []string   `json:"tags"`
	AutoGrantRelated bool       `json:"auto_grant_related_resources"`
}

type grantAccessResponse struct {
	Access         grantResponse         `json:"access"`
	Created        bool                  `json:"created"`
	Related        []grantResponse       `json:"related_access"`
	RelatedSkipped []string              `json:"related_skipped"`
	RelatedFailed  []bulkFailureResponse `json:"related_failed"`
}

// grantAccessHandler godoc
// @Summary Otorgar acceso a un recurso
// @Description Crea el grant o actualiza el activo existente para (usuario, recurso). Solo admins de la organización. Con auto_grant_related_resources sobre un proyecto crea grants heredados en fases, sprints y carpetas.
// @Tags access
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param orgID path string true "ID de la organización"
// @Param payload body grantAccessRequest true "Datos del grant; expires_at en RFC3339"
// @Success 201 {object} grantAccessResponse
// @Success 200 {object} grantAccessResponse
// @Failure 400 {string} string "invalid json / validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "organization or resource not found"
// @Failure 409 {string} string "conflict"
// @Router /organizations/{orgID}/access [post]
func grantAccessHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req grantAccessRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		perm, err := ParsePermission(req.Permission)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		res, err := svc.Grant(r.Context(), GrantInput{
			OrganizationID:   chi.URLParam(r, "orgID"),
			RequesterID:      userID,
			UserID:           req.UserID,
			ResourceType:     req.ResourceType,
			ResourceID:       req.ResourceID,
			Permission:       perm,
			AccessType:       AccessType(strings.ToLower(strings.TrimSpace(req.AccessType))),
			CanDelegate:      req.CanDelegate,
			ExpiresAt:        req.ExpiresAt,
			Notes:            req.Notes,
			Tags:             req.Tags,
			AutoGrantRelated: req.AutoGrantRelated,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		now := svc.now()
		out := grantAccessResponse{
			Access:         toGrantResponse(res.Grant, now),
			Created:        res.Created,
			Related:        toGrantResponses(res.Related, now),
			RelatedSkipped: nonNilStrings(res.RelatedSkipped),
			RelatedFailed:  toFailureResponses(res.RelatedFailed),
		}
		status := http.StatusOK
		if res.Created {
			status = http.StatusCreated
		}
		writeJSON(w, status, out)
	}
}

// listAccessHandler godoc
// @Summary Listar grants de la organización
// @Tags access
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param orgID path string true "ID de la organización"
// @Param user_id query string false "Filtrar por usuario"
// @Param resource_type query string false "Filtrar por tipo de recurso"
// @Param resource_id query string false "Filtrar por recurso"
// @Param permission query string false "view, edit o admin"
// @Param active_only query bool false "Solo activos"
// @Param limit query int false "Máximo de resultados"
// @Success 200 {array} grantResponse
// @Failure 400 {string} string "parámetros inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /organizations/{orgID}/access [get]
func listAccessHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		q := r.URL.Query()
		filter := ListFilter{
			OrganizationID: chi.URLParam(r, "orgID"),
			UserID:         strings.TrimSpace(q.Get("user_id")),
			ResourceType:   NormalizeResourceType(q.Get("resource_type")),
			ResourceID:     strings.TrimSpace(q.Get("resource_id")),
			Permission:     Permission(strings.ToLower(strings.TrimSpace(q.Get("permission")))),
		}
		if v := strings.TrimSpace(q.Get("active_only")); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "active_only must be a boolean", http.StatusBadRequest)
				return
			}
			filter.ActiveOnly = b
		}
		limit, ok := parseLimit(w, q.Get("limit"))
		if !ok {
			return
		}
		filter.Limit = limit

		items, err := svc.ListGrants(r.Context(), userID, filter)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponses(items, svc.now()))
	}
}

type statsResponse struct {
	Total        int            `json:"total"`
	Active       int            `json:"active"`
	Inactive     int            `json:"inactive"`
	Expired      int            `json:"expired"`
	ByPermission map[string]int `json:"by_permission"`
	ByAccessType map[string]int `json:"by_access_type"`
	ByResource   map[string]int `json:"by_resource_type"`
}

// statsHandler godoc
// @Summary Estadísticas de acceso de la organización
// @Tags access
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param orgID path string true "ID de la organización"
// @Success 200 {object} statsResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /organizations/{orgID}/access/stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		st, err := svc.Stats(r.Context(), chi.URLParam(r, "orgID"), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := statsResponse{
			Total:        st.Total,
			Active:       st.Active,
			Inactive:     st.Inactive,
			Expired:      st.Expired,
			ByPermission: map[string]int{},
			ByAccessType: map[string]int{},
			ByResource:   map[string]int{},
		}
		for k, v := range st.ByPermission {
			out.ByPermission[string(k)] = v
		}
		for k, v := range st.ByAccessType {
			out.ByAccessType[string(k)] = v
		}
		for k, v := range st.ByResource {
			out.ByResource[string(k)] = v
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type bulkGrantRequest struct {
	UserIDs      []string   `json:"user_ids"`
	ResourceType string     `json:"resource_type"`
	ResourceID   string     `json:"resource_id"`
	Permission   string     `json:"permission"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

type bulkGrantResponse struct {
	Success []grantResponse       `json:"success"`
	Updated []grantResponse       `json:"updated"`
	Failed  []bulkFailureResponse `json:"failed"`
}

// bulkGrantHandler godoc
// @Summary Otorgar acceso a varios usuarios
// @Description Procesa cada usuario por separado; los fallos se reportan por usuario.
// @Tags access
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param orgID path string true "ID de la organización"
// @Param payload body bulkGrantRequest true "Usuarios y recurso"
// @Success 200 {object} bulkGrantResponse
// @Failure 400 {string} string "invalid json / validación"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "resource not found"
// @Router /organizations/{orgID}/access/bulk [post]
func bulkGrantHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req bulkGrantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		perm, err := ParsePermission(req.Permission)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		res, err := svc.BulkGrant(r.Context(), BulkGrantInput{
			OrganizationID: chi.URLParam(r, "orgID"),
			RequesterID:    userID,
			UserIDs:        req.UserIDs,
			ResourceType:   req.ResourceType,
			ResourceID:     req.ResourceID,
			Permission:     perm,
			ExpiresAt:      req.ExpiresAt,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		now := svc.now()
		writeJSON(w, http.StatusOK, bulkGrantResponse{
			Success: toGrantResponses(res.Success, now),
			Updated: toGrantResponses(res.Updated, now),
			Failed:  toFailureResponses(res.Failed),
		})
	}
}

type bulkRevokeRequest struct {
	AccessIDs []string `json:"access_ids"`
	Reason    string   `json:"reason"`
}

type bulkRevokeResponse struct {
	Success []string              `json:"success"`
	Failed  []bulkFailureResponse `json:"failed"`
}

// bulkRevokeHandler godoc
// @Summary Revocar varios grants
// @Tags access
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param orgID path string true "ID de la organización"
// @Param payload body bulkRevokeRequest true "IDs de grants y motivo"
// @Success 200 {object} bulkRevokeResponse
// @Failure 400 {string} string "invalid json / validación"
// @Failure 403 {string} string "forbidden"
// @Router /organizations/{orgID}/access/bulk-revoke [post]
func bulkRevokeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req bulkRevokeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.BulkRevoke(r.Context(), BulkRevokeInput{
			OrganizationID: chi.URLParam(r, "orgID"),
			RequesterID:    userID,
			AccessIDs:      req.AccessIDs,
			Reason:         req.Reason,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, bulkRevokeResponse{
			Success: nonNilStrings(res.Success),
			Failed:  toFailureResponses(res.Failed),
		})
	}
}

type cleanupResponse struct {
	Deactivated int64     `json:"deactivated"`
	SweptAt     time.Time `json:"swept_at"`
}

// cleanupExpiredHandler godoc
// @Summary Desactivar grants vencidos de la organización
// @Tags access
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param orgID path string true "ID de la organización"
// @Success 200 {object} cleanupResponse
// @Failure 403 {string} string "forbidden"
// @Router /organizations/{orgID}/access/cleanup-expired [post]
func cleanupExpiredHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		res, err := svc.CleanupExpired(r.Context(), chi.URLParam(r, "orgID"), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cleanupResponse{Deactivated: res.Deactivated, SweptAt: res.SweptAt})
	}
}

// userAccessHandler godoc
// @Summary Grants activos de un usuario agrupados por tipo de recurso
// @Tags access
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param orgID path string true "ID de la organización"
// @Param userID path string true "ID del usuario"
// @Success 200 {object} map[string][]grantResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "organization not found"
// @Router /organizations/{orgID}/users/{userID}/access [get]
func userAccessHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requesterID, ok := requireUser(w, r)
		if !ok {
			return
		}
		grouped, err := svc.UserAccess(r.Context(), chi.URLParam(r, "orgID"), chi.URLParam(r, "userID"), requesterID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		now := svc.now()
		out := make(map[string][]grantResponse, len(grouped))
		for t, items := range grouped {
			out[string(t)] = toGrantResponses(items, now)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// resourceAccessHandler godoc
// @Summary Quién tiene acceso a un recurso, agrupado por permiso
// @Tags access
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param orgID path string true "ID de la organización"
// @Param resourceType path string true "Tipo de recurso"
// @Param resourceID path string true "ID del recurso"
// @Success 200 {object} map[string][]grantResponse
// @Failure 403 {string} string "forbidden"
// @Router /organizations/{orgID}/resources/{resourceType}/{resourceID}/access [get]
func resourceAccessHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requesterID, ok := requireUser(w, r)
		if !ok {
			return
		}
		grouped, err := svc.ResourceAccess(r.Context(),
			chi.URLParam(r, "orgID"),
			chi.URLParam(r, "resourceType"),
			chi.URLParam(r, "resourceID"),
			requesterID,
		)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		now := svc.now()
		out := make(map[string][]grantResponse, len(grouped))
		for p, items := range grouped {
			out[string(p)] = toGrantResponses(items, now)
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type checkAccessResponse struct {
	HasAccess             bool       `json:"has_access"`
	AccessID              string     `json:"access_id,omitempty"`
	Permission            Permission `json:"permission,omitempty"`
	AccessType            AccessType `json:"access_type,omitempty"`
	IsInherited           bool       `json:"is_inherited"`
	CanDelegate           bool       `json:"can_delegate"`
	ExpiresAt             *time.Time `json:"expires_at,omitempty"`
	IsExpired             bool       `json:"is_expired"`
	HasRequiredPermission bool       `json:"has_required_permission"`
}

// checkAccessHandler godoc
// @Summary Verificar acceso de un usuario a un recurso
// @Description Solo lectura. Sin user_id se verifica al usuario autenticado.
// @Tags access
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param user_id query string false "Usuario a verificar (default: el autenticado)"
// @Param resource_type query string true "Tipo de recurso"
// @Param resource_id query string true "ID del recurso"
// @Param required_permission query string false "view, edit o admin"
// @Success 200 {object} checkAccessResponse
// @Failure 400 {string} string "parámetros inválidos"
// @Failure 401 {string} string "unauthorized"
// @Router /access/check [get]
func checkAccessHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requesterID, ok := requireUser(w, r)
		if !ok {
			return
		}

		q := r.URL.Query()
		target := strings.TrimSpace(q.Get("user_id"))
		if target == "" {
			target = requesterID
		}

		res, err := svc.CheckAccess(r.Context(), CheckInput{
			UserID:       target,
			ResourceType: q.Get("resource_type"),
			ResourceID:   q.Get("resource_id"),
			Required:     Permission(strings.ToLower(strings.TrimSpace(q.Get("required_permission")))),
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, checkAccessResponse{
			HasAccess:             res.HasAccess,
			AccessID:              res.GrantID,
			Permission:            res.Permission,
			AccessType:            res.AccessType,
			IsInherited:           res.IsInherited,
			CanDelegate:           res.CanDelegate,
			ExpiresAt:             res.ExpiresAt,
			IsExpired:             res.IsExpired,
			HasRequiredPermission: res.HasRequiredPermission,
		})
	}
}

// getAccessHandler godoc
// @Summary Obtener un grant
// @Description El dueño del grant o un admin de la organización.
// @Tags access
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param accessID path string true "ID del grant"
// @Success 200 {object} grantResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "not found"
// @Router /access/{accessID} [get]
func getAccessHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		g, err := svc.GetGrant(r.Context(), chi.URLParam(r, "accessID"), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponse(g, svc.now()))
	}
}

type updatePermissionRequest struct {
	Permission string `json:"permission"`
	Reason     string `json:"reason"`

	// Punteros para PATCH real: nil = no tocar.
	ExpiresAt   *time.Time `json:"expires_at"`
	CanDelegate *bool      `json:"can_delegate"`
	Notes       *string    `json:"notes"`
	Tags        []string   `json:"tags"`
}

// updatePermissionHandler godoc
// @Summary Cambiar el permiso de un grant
// @Description Solo admins. También permite extender expires_at (necesario para restaurar un grant vencido).
// @Tags access
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param accessID path string true "ID del grant"
// @Param payload body updatePermissionRequest true "Nuevo permiso y motivo"
// @Success 200 {object} grantResponse
// @Failure 400 {string} string "invalid json / validación"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "not found"
// @Failure 409 {string} string "conflict"
// @Router /access/{accessID} [patch]
func updatePermissionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req updatePermissionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		perm, err := ParsePermission(req.Permission)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		g, err := svc.UpdatePermission(r.Context(), UpdateInput{
			GrantID:     chi.URLParam(r, "accessID"),
			RequesterID: userID,
			Permission:  perm,
			Reason:      req.Reason,
			ExpiresAt:   req.ExpiresAt,
			CanDelegate: req.CanDelegate,
			Notes:       req.Notes,
			Tags:        req.Tags,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponse(g, svc.now()))
	}
}

type revokeRequest struct {
	Reason  string `json:"reason"`
	Cascade bool   `json:"cascade"`
}

type revokeResponse struct {
	Access        grantResponse         `json:"access"`
	Cascaded      []string              `json:"cascaded"`
	CascadeFailed []bulkFailureResponse `json:"cascade_failed"`
}

// revokeHandler godoc
// @Summary Revocar un grant
// @Description Solo admins. Con cascade sobre un grant de proyecto revoca también los heredados del mismo usuario.
// @Tags access
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param accessID path string true "ID del grant"
// @Param payload body revokeRequest false "Motivo y cascada"
// @Success 200 {object} revokeResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "not found"
// @Failure 409 {string} string "already inactive"
// @Router /access/{accessID}/revoke [post]
func revokeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req revokeRequest
		if !decodeOptional(w, r, &req) {
			return
		}

		res, err := svc.Revoke(r.Context(), RevokeInput{
			GrantID:     chi.URLParam(r, "accessID"),
			RequesterID: userID,
			Reason:      req.Reason,
			Cascade:     req.Cascade,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, revokeResponse{
			Access:        toGrantResponse(res.Grant, svc.now()),
			Cascaded:      nonNilStrings(res.Cascaded),
			CascadeFailed: toFailureResponses(res.CascadeFailed),
		})
	}
}

type restoreRequest struct {
	Reason string `json:"reason"`
}

// restoreHandler godoc
// @Summary Restaurar un grant revocado
// @Description Solo admins. Un grant vencido no se restaura: primero extender expires_at.
// @Tags access
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param accessID path string true "ID del grant"
// @Param payload body restoreRequest false "Motivo"
// @Success 200 {object} grantResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "not found"
// @Failure 409 {string} string "already active / expired / duplicate"
// @Router /access/{accessID}/restore [post]
func restoreHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req restoreRequest
		if !decodeOptional(w, r, &req) {
			return
		}

		g, err := svc.Restore(r.Context(), chi.URLParam(r, "accessID"), userID, req.Reason)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponse(g, svc.now()))
	}
}

type delegateRequest struct {
	TargetUserID string     `json:"target_user_id"`
	Permission   string     `json:"permission"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

// delegateHandler godoc
// @Summary Delegar un grant propio
// @Description Solo el dueño del grant, con can_delegate. El permiso delegado no puede superar al del grant.
// @Tags access
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param accessID path string true "ID del grant"
// @Param payload body delegateRequest true "Destinatario y permiso"
// @Success 201 {object} grantResponse
// @Failure 400 {string} string "invalid json / validación"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "not found"
// @Failure 409 {string} string "permission ceiling / grant inactive"
// @Router /access/{accessID}/delegations [post]
func delegateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req delegateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		perm, err := ParsePermission(req.Permission)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		g, err := svc.Delegate(r.Context(), DelegateInput{
			GrantID:      chi.URLParam(r, "accessID"),
			RequesterID:  userID,
			TargetUserID: req.TargetUserID,
			Permission:   perm,
			ExpiresAt:    req.ExpiresAt,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toGrantResponse(g, svc.now()))
	}
}

// revokeDelegationHandler godoc
// @Summary Revocar una delegación
// @Tags access
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param accessID path string true "ID del grant"
// @Param userID path string true "Usuario destinatario de la delegación"
// @Success 200 {object} grantResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "not found"
// @Router /access/{accessID}/delegations/{userID} [delete]
func revokeDelegationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		g, err := svc.RevokeDelegation(r.Context(), chi.URLParam(r, "accessID"), chi.URLParam(r, "userID"), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponse(g, svc.now()))
	}
}

type tagRequest struct {
	Tag string `json:"tag"`
}

// addTagHandler godoc
// @Summary Agregar un tag a un grant
// @Tags access
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param accessID path string true "ID del grant"
// @Param payload body tagRequest true "Tag"
// @Success 200 {object} grantResponse
// @Failure 400 {string} string "tag required"
// @Failure 403 {string} string "forbidden"
// @Router /access/{accessID}/tags [post]
func addTagHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req tagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		g, err := svc.AddTag(r.Context(), chi.URLParam(r, "accessID"), req.Tag, userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponse(g, svc.now()))
	}
}

// removeTagHandler godoc
// @Summary Quitar un tag de un grant
// @Tags access
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param accessID path string true "ID del grant"
// @Param tag path string true "Tag"
// @Success 200 {object} grantResponse
// @Failure 403 {string} string "forbidden"
// @Router /access/{accessID}/tags/{tag} [delete]
func removeTagHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		g, err := svc.RemoveTag(r.Context(), chi.URLParam(r, "accessID"), chi.URLParam(r, "tag"), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponse(g, svc.now()))
	}
}

// recordUsageHandler godoc
// @Summary Registrar un uso del grant
// @Description Solo el dueño del grant. Incrementa access_count y actualiza last_accessed_at.
// @Tags access
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param accessID path string true "ID del grant"
// @Success 200 {object} grantResponse
// @Failure 403 {string} string "forbidden"
// @Failure 409 {string} string "grant not active"
// @Router /access/{accessID}/usage [post]
func recordUsageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		g, err := svc.RecordAccess(r.Context(), chi.URLParam(r, "accessID"), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponse(g, svc.now()))
	}
}

type auditEntryResponse struct {
	Action      string         `json:"action"`
	PerformedBy string         `json:"performed_by"`
	Timestamp   time.Time      `json:"timestamp"`
	Details     map[string]any `json:"details,omitempty"`
}

// auditHistoryHandler godoc
// @Summary Historial de auditoría de un grant
// @Description Más recientes primero. El dueño del grant o un admin.
// @Tags access
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param accessID path string true "ID del grant"
// @Param limit query int false "Máximo de entradas. Por defecto 50"
// @Success 200 {array} auditEntryResponse
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "not found"
// @Router /access/{accessID}/audit [get]
func auditHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		limit, ok := parseLimit(w, r.URL.Query().Get("limit"))
		if !ok {
			return
		}

		entries, err := svc.GetAuditHistory(r.Context(), chi.URLParam(r, "accessID"), userID, limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]auditEntryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, auditEntryResponse{
				Action:      e.Action,
				PerformedBy: e.PerformedBy,
				Timestamp:   e.Timestamp,
				Details:     e.Details,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// myAccessHandler godoc
// @Summary Mis grants activos
// @Tags access
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {array} grantResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me/access [get]
func myAccessHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		items, err := svc.MyAccess(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGrantResponses(items, svc.now()))
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return strings.TrimSpace(claims.UserID), true
}

// decodeOptional acepta body vacío.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

func parseLimit(w http.ResponseWriter, raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > MaxAuditEntries {
		http.Error(w, "limit must be between 1 and 5000", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toGrantResponse(g Grant, now time.Time) grantResponse {
	delegations := make([]delegationResponse, 0, len(g.Delegations))
	for _, d := range g.Delegations {
		delegations = append(delegations, delegationResponse{
			TargetUserID: d.TargetUserID,
			Permission:   d.Permission,
			DelegatedBy:  d.DelegatedBy,
			DelegatedAt:  d.DelegatedAt,
			ExpiresAt:    d.ExpiresAt,
			Revoked:      d.Revoked,
			RevokedAt:    d.RevokedAt,
		})
	}

	return grantResponse{
		ID:               g.ID,
		OrganizationID:   g.OrganizationID,
		UserID:           g.UserID,
		ResourceType:     g.ResourceType,
		ResourceID:       g.ResourceID,
		Permission:       g.Permission,
		AccessType:       g.AccessType,
		GrantedBy:        g.GrantedBy,
		GrantedAt:        g.GrantedAt,
		InheritedFrom:    g.InheritedFrom,
		InheritedFromID:  g.InheritedFromID,
		IsInherited:      g.IsInherited,
		CanDelegate:      g.CanDelegate,
		Delegations:      delegations,
		ExpiresAt:        g.ExpiresAt,
		IsExpired:        g.Expired(now),
		IsActive:         g.IsActive,
		RevokedAt:        g.RevokedAt,
		RevokedBy:        g.RevokedBy,
		RevocationReason: g.RevocationReason,
		RestoredAt:       g.RestoredAt,
		RestoredBy:       g.RestoredBy,
		Metadata: metadataResponse{
			ResourceName: g.Metadata.ResourceName,
			ResourcePath: g.Metadata.ResourcePath,
			Department:   g.Metadata.Department,
			Team:         g.Metadata.Team,
			Project:      g.Metadata.Project,
		},
		Tags:           nonNilStrings(g.Tags),
		Notes:          g.Notes,
		AccessCount:    g.AccessCount,
		LastAccessedAt: g.LastAccessedAt,
		AuditEntries:   len(g.AuditLog),
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

func toGrantResponses(items []Grant, now time.Time) []grantResponse {
	out := make([]grantResponse, 0, len(items))
	for _, g := range items {
		out = append(out, toGrantResponse(g, now))
	}
	return out
}

func toFailureResponses(items []BulkFailure) []bulkFailureResponse {
	out := make([]bulkFailureResponse, 0, len(items))
	for _, f := range items {
		out = append(out, bulkFailureResponse{ID: f.ID, Reason: f.Reason})
	}
	return out
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

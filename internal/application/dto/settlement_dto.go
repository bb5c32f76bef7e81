package dto

// ReviewSettlementRequest body para PATCH /api/rendiciones/:id/revision.
type ReviewSettlementRequest struct {
	Status string `json:"estado"`
	Notes  string `json:"observaciones"`
}

// ResolveExceptionRequest body para PATCH /api/salvedades/:id/resolver.
type ResolveExceptionRequest struct {
	Resolution string `json:"resolucion"`
}

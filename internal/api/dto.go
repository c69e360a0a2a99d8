package api

import (
	"github.com/Veraticus/moti-registry/internal/model"
	"github.com/Veraticus/moti-registry/internal/registry"
)

type summaryResponse struct {
	Total      int     `json:"total"`
	Pending    int     `json:"pending"`
	Completed  int     `json:"completed"`
	AverageTAT float64 `json:"average_tat"`
}

type dashboardResponse struct {
	Records []recordResponse `json:"records"`
	Summary summaryResponse  `json:"summary"`
}

type recordResponse struct {
	DateCompleted  *string `json:"date_completed"`
	RefID          string  `json:"ref_id"`
	DateReceived   string  `json:"date_received"`
	Type           string  `json:"type"`
	Classification string  `json:"classification"`
	Sender         string  `json:"sender"`
	Subject        string  `json:"subject"`
	AssignedTo     string  `json:"assigned_to"`
	Status         string  `json:"status"`
	TATDays        int     `json:"tat_days"`
}

type searchResponse struct {
	Records []recordResponse `json:"records"`
	Count   int              `json:"count"`
}

type submitResponse struct {
	RefID  string         `json:"ref_id"`
	Record recordResponse `json:"record"`
}

// entryRequest is the body of POST /api/v1/correspondence. A missing
// date_received means today.
type entryRequest struct {
	DateReceived   string `json:"date_received"`
	Type           string `json:"type"`
	Classification string `json:"classification"`
	Sender         string `json:"sender"`
	Subject        string `json:"subject"`
	AssignedTo     string `json:"assigned_to"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func toSummary(s registry.Summary) summaryResponse {
	return summaryResponse{
		Total:      s.Total,
		Pending:    s.Pending,
		Completed:  s.Completed,
		AverageTAT: s.RoundedAverageTAT(),
	}
}

func toRecord(rec model.Correspondence) recordResponse {
	out := recordResponse{
		RefID:          rec.RefID,
		DateReceived:   rec.DateReceived.Format(model.DateLayout),
		Type:           string(rec.Type),
		Classification: string(rec.Classification),
		Sender:         rec.Sender,
		Subject:        rec.Subject,
		AssignedTo:     rec.AssignedTo,
		Status:         string(rec.Status),
		TATDays:        rec.TATDays,
	}
	if rec.DateCompleted != nil {
		completed := rec.DateCompleted.Format(model.DateLayout)
		out.DateCompleted = &completed
	}
	return out
}

func toRecords(table model.Table) []recordResponse {
	out := make([]recordResponse, len(table))
	for i, rec := range table {
		out[i] = toRecord(rec)
	}
	return out
}

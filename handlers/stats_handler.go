package handlers

import (
	"net/http"
	"strconv"

	"github.com/spinroom/tournament-manager/services"
)

type StatsHandler struct {
	statsService services.StatsService
	eloService   services.EloService
}

func NewStatsHandler(statsService services.StatsService, eloService services.EloService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		eloService:   eloService,
	}
}

func queryInt(r *http.Request, name, fallback string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		raw = fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

// EloLeaderboard обрабатывает GET /stats/elo?limit=
func (h *StatsHandler) EloLeaderboard(w http.ResponseWriter, r *http.Request) {
	users, err := h.eloService.Leaderboard(r.Context(), queryInt(r, "limit", "50"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": users}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// WinsLeaderboard обрабатывает GET /stats/wins?limit=
func (h *StatsHandler) WinsLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.statsService.GlobalLeaderboard(r.Context(), queryInt(r, "limit", "50"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UserStats обрабатывает GET /stats/users/{userID}
func (h *StatsHandler) UserStats(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	stats, err := h.statsService.UserStats(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, stats, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// EloHistory обрабатывает GET /stats/users/{userID}/elo?limit=
func (h *StatsHandler) EloHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	history, err := h.eloService.UserHistory(r.Context(), userID, queryInt(r, "limit", "20"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"history": history}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// TournamentHistory обрабатывает GET /stats/users/{userID}/tournaments
func (h *StatsHandler) TournamentHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	records, err := h.statsService.UserTournamentHistory(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": records}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// HeadToHead обрабатывает GET /stats/head-to-head/{userID}/{opponentID}
func (h *StatsHandler) HeadToHead(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	opponentID, err := getIDFromURL(r, "opponentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.statsService.HeadToHead(r.Context(), userID, opponentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, report, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// HallOfFame обрабатывает GET /stats/hall-of-fame
func (h *StatsHandler) HallOfFame(w http.ResponseWriter, r *http.Request) {
	entries, err := h.statsService.HallOfFame(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"hall_of_fame": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MatchHistory обрабатывает GET /stats/matches?tournament_id=&user_id=&page=&per_page=
func (h *StatsHandler) MatchHistory(w http.ResponseWriter, r *http.Request) {
	var tournamentID, userID *int
	if raw := queryInt(r, "tournament_id", "0"); raw > 0 {
		tournamentID = &raw
	}
	if raw := queryInt(r, "user_id", "0"); raw > 0 {
		userID = &raw
	}

	page, err := h.statsService.MatchHistory(r.Context(), tournamentID, userID,
		queryInt(r, "page", "1"), queryInt(r, "per_page", "20"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, page, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecalculateElo обрабатывает POST /admin/elo/recalculate — полный пересчёт
// рейтингов с нуля.
func (h *StatsHandler) RecalculateElo(w http.ResponseWriter, r *http.Request) {
	report, err := h.eloService.RecalculateAll(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, report, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/cbodonnell/sus/pkg/game/types"
	"github.com/cbodonnell/sus/pkg/log"
	"github.com/cbodonnell/sus/pkg/messages"
	"github.com/cbodonnell/sus/pkg/repositories"
	"github.com/cbodonnell/sus/pkg/state"
	"github.com/cbodonnell/sus/pkg/vision"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	ContentTypeJSON        = "application/json"
	ContentTypeZstd        = "application/zstd"
	ContentTypeFlatbuffers = "application/x-flatbuffers"
)

type stateResponse struct {
	Tick    uint64             `json:"tick"`
	Summary types.StateSummary `json:"summary"`
}

func accepts(r *http.Request, contentType string) bool {
	return strings.Contains(r.Header.Get("Accept"), contentType)
}

func getSnapshot(w http.ResponseWriter, r *http.Request, stateManager state.StateManager) (*types.Snapshot, bool) {
	snapshot, err := stateManager.Get(r.Context())
	if err != nil {
		if errors.Is(err, state.ErrNoSnapshot) {
			http.Error(w, "Game has not started", http.StatusServiceUnavailable)
			return nil, false
		}
		log.Error("failed to get snapshot: %v", err)
		http.Error(w, "Failed to get game state", http.StatusInternalServerError)
		return nil, false
	}
	return snapshot, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}

func parsePlayerID(w http.ResponseWriter, r *http.Request) (uint32, bool) {
	playerID, err := strconv.ParseUint(mux.Vars(r)["playerID"], 10, 32)
	if err != nil || playerID == 0 {
		http.Error(w, "Invalid playerID", http.StatusBadRequest)
		return 0, false
	}
	return uint32(playerID), true
}

// HandleGetState returns the public summary of the last committed tick.
func HandleGetState(stateManager state.StateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, ok := getSnapshot(w, r, stateManager)
		if !ok {
			return
		}

		if accepts(r, ContentTypeFlatbuffers) {
			w.Header().Set("Content-Type", ContentTypeFlatbuffers)
			w.Write(messages.SerializeStateSummary(snapshot.Summary))
			return
		}

		writeJSON(w, http.StatusOK, &stateResponse{
			Tick:    snapshot.Tick,
			Summary: snapshot.Summary,
		})
	}
}

// HandleGetObservation returns what one actor could observe on the last committed tick.
// ?view=agent returns the compact agent view.
func HandleGetObservation(stateManager state.StateManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := parsePlayerID(w, r)
		if !ok {
			return
		}
		snapshot, ok := getSnapshot(w, r, stateManager)
		if !ok {
			return
		}
		obs, ok := snapshot.Observations[playerID]
		if !ok {
			http.Error(w, "Player not found", http.StatusNotFound)
			return
		}

		if r.URL.Query().Get("view") == "agent" {
			writeJSON(w, http.StatusOK, vision.ToAgentObservation(obs))
			return
		}

		if accepts(r, ContentTypeZstd) {
			b, err := messages.SerializeObservation(obs)
			if err != nil {
				log.Error("failed to serialize observation: %v", err)
				http.Error(w, "Failed to serialize observation", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", ContentTypeZstd)
			w.Write(b)
			return
		}

		writeJSON(w, http.StatusOK, obs)
	}
}

// HandleSubmitAction accepts an action for the next tick on behalf of a player.
func HandleSubmitAction(actionMessageChan chan<- *messages.Message) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := parsePlayerID(w, r)
		if !ok {
			return
		}

		msg := &messages.Message{}
		body := http.MaxBytesReader(w, r.Body, messages.MessageBufferSize)
		if err := json.NewDecoder(body).Decode(msg); err != nil {
			http.Error(w, "Invalid action message", http.StatusBadRequest)
			return
		}
		msg.PlayerID = playerID

		if _, err := msg.ToAction(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		select {
		case actionMessageChan <- msg:
			w.WriteHeader(http.StatusAccepted)
		default:
			log.Warn("action channel full, rejecting %s from player %d", msg.Type, playerID)
			http.Error(w, "Too many pending actions", http.StatusServiceUnavailable)
		}
	}
}

// HandleListMatches lists completed matches, most recent first.
func HandleListMatches(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		results, err := repository.ListMatchResults(r.Context(), limit)
		if err != nil {
			log.Error("failed to list match results: %v", err)
			http.Error(w, "Failed to list matches", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, results)
	}
}

func HandleGetMatch(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := uuid.Parse(mux.Vars(r)["matchID"])
		if err != nil {
			http.Error(w, "Invalid matchID", http.StatusBadRequest)
			return
		}

		result, err := repository.GetMatchResult(r.Context(), matchID)
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "Match not found", http.StatusNotFound)
				return
			}
			log.Error("failed to get match result: %v", err)
			http.Error(w, "Failed to get match", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

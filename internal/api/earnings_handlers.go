package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"allinone-backend/internal/economy"
)

type EarningsResponse struct {
	Success  bool              `json:"success"`
	Earnings *economy.Earnings `json:"earnings"`
}

// @Summary      Project A-coin earnings
// @Description  Computes the daily/hourly/monthly payout for a computing-power share of the network. Network total and reward pool default to the platform configuration.
// @Tags         economy
// @Produce      json
// @Param        power         query  number  true   "User computing power"
// @Param        networkPower  query  number  false  "Total network computing power"
// @Param        rewardPool    query  number  false  "Daily reward pool"
// @Success      200  {object}  EarningsResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /earnings [get]
func (s *Server) EarningsHandler(w http.ResponseWriter, r *http.Request) {
	power, err := strconv.ParseFloat(r.URL.Query().Get("power"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Parametr power jest wymagany i musi być liczbą")
		return
	}

	networkPower := s.config.Economy.TotalNetworkPower
	if raw := r.URL.Query().Get("networkPower"); raw != "" {
		if networkPower, err = strconv.ParseFloat(raw, 64); err != nil {
			writeError(w, http.StatusBadRequest, "Parametr networkPower musi być liczbą")
			return
		}
	}

	rewardPool := s.config.Economy.DailyRewardPool
	if raw := r.URL.Query().Get("rewardPool"); raw != "" {
		if rewardPool, err = strconv.ParseFloat(raw, 64); err != nil {
			writeError(w, http.StatusBadRequest, "Parametr rewardPool musi być liczbą")
			return
		}
	}

	earnings, err := economy.CalculateEarnings(power, networkPower, rewardPool)
	if err != nil {
		if errors.Is(err, economy.ErrZeroNetworkPower) || errors.Is(err, economy.ErrNegativeInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Błąd kalkulatora zarobków")
		return
	}

	writeJSON(w, http.StatusOK, EarningsResponse{Success: true, Earnings: earnings})
}

type AddExperienceRequest struct {
	Level      int     `json:"level"`
	Experience float64 `json:"experience"`
	Amount     float64 `json:"amount"`
}

type ProgressionResponse struct {
	Success        bool    `json:"success"`
	Level          int     `json:"level"`
	Experience     float64 `json:"experience"`
	NextLevelAt    float64 `json:"next_level_at"`
	StepMultiplier float64 `json:"step_multiplier"`
}

// @Summary      Apply experience to a progression state
// @Description  Pure calculation: applies earned experience, carrying any excess into the next level.
// @Tags         economy
// @Accept       json
// @Produce      json
// @Param        experienceRequest  body      AddExperienceRequest  true  "Current state and earned experience"
// @Success      200                {object}  ProgressionResponse
// @Failure      400                {object}  ErrorResponse
// @Router       /earnings/level [post]
func (s *Server) AddExperienceHandler(w http.ResponseWriter, r *http.Request) {
	var req AddExperienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Nieprawidłowe ciało żądania")
		return
	}
	if req.Amount < 0 || req.Experience < 0 {
		writeError(w, http.StatusBadRequest, "Doświadczenie nie może być ujemne")
		return
	}

	result := economy.AddExperience(economy.Progression{
		Level:      req.Level,
		Experience: req.Experience,
	}, req.Amount)

	writeJSON(w, http.StatusOK, ProgressionResponse{
		Success:        true,
		Level:          result.Level,
		Experience:     result.Experience,
		NextLevelAt:    economy.ExperienceToNextLevel(result.Level),
		StepMultiplier: economy.StepMultiplier(result.Level),
	})
}

package server

import "codeguess/internal/models"

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResp struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type meResp struct {
	Username string `json:"username"`
}

type okResp struct {
	OK bool `json:"ok"`
}

type errorResp struct {
	Error string `json:"error"`
}

// entryReq keeps the raw JSON values so that a non-numeric score can be
// told apart from a missing one.
type entryReq struct {
	Language any `json:"language"`
	Score    any `json:"score"`
	TimeLeft any `json:"timeLeft"`
	Round    any `json:"round"`
}

type leaderboardResp struct {
	Leaderboard models.Languages `json:"leaderboard"`
}

type languagesResp struct {
	Languages []string `json:"languages"`
}

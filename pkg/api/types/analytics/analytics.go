package analytics

import (
	kdb "github.com/opst/grammarfab/pkg/db"
	"github.com/opst/grammarfab/pkg/utils/rfctime"
)

type Stats struct {
	TotalCorrections int `json:"total_corrections"`
	TotalUsers       int `json:"total_users"`
	CorrectionsToday int `json:"corrections_today"`
	UsersToday       int `json:"users_today"`
}

func ComposeStats(s kdb.Stats) Stats {
	return Stats{
		TotalCorrections: s.TotalCorrections,
		TotalUsers:       s.TotalUsers,
		CorrectionsToday: s.CorrectionsToday,
		UsersToday:       s.UsersToday,
	}
}

// MyStats is statistics of the user themself.
type MyStats struct {
	UserId           int64           `json:"user_id"`
	Email            string          `json:"email"`
	FullName         string          `json:"full_name"`
	TotalCorrections int             `json:"total_corrections"`
	MemberSince      rfctime.RFC3339 `json:"member_since"`
}

type CorrectionCount struct {
	UserId           int64 `json:"user_id"`
	TotalCorrections int   `json:"total_corrections"`
}

type UserCorrectionCount struct {
	UserUUID         string `json:"user_uuid"`
	TotalCorrections int    `json:"total_corrections"`
}

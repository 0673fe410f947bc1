package usecase

import (
	"context"
	"sort"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	leaderboardDefaultLimit = 10
	leaderboardMaxLimit     = 100
)

// ByOwner monta o leaderboard por sales exec: total, contagem por status e
// win rate de cada dono, ordenado por volume. A ordenação é estável — em
// empate de total prevalece a ordem alfabética da enumeração — e o corte em
// `limit` só acontece depois de computar todos os donos.
func (uc *AnalyticsUseCase) ByOwner(ctx context.Context, limit int) ([]OwnerRow, error) {
	if limit <= 0 {
		limit = leaderboardDefaultLimit
	}
	if limit > leaderboardMaxLimit {
		limit = leaderboardMaxLimit
	}

	execs, err := uc.Users.FindMany(ctx, entity.RoleSalesExec)
	if err != nil {
		return nil, analyticsFailed(err)
	}

	rows := make([]OwnerRow, 0, len(execs))
	for _, u := range execs {
		owner := LeadFilter{OwnerID: u.ID}

		total, err := uc.Leads.Count(ctx, owner)
		if err != nil {
			return nil, analyticsFailed(err)
		}

		byStatus := make(map[string]int, len(entity.LeadStatuses))
		for _, s := range entity.LeadStatuses {
			f := owner
			f.Status = s
			n, err := uc.Leads.Count(ctx, f)
			if err != nil {
				return nil, analyticsFailed(err)
			}
			byStatus[s] = n
		}

		winRate := 0.0
		if total > 0 {
			winRate = float64(byStatus[entity.StatusWon]) / float64(total)
		}

		rows = append(rows, OwnerRow{
			OwnerID:    u.ID,
			OwnerName:  u.Name,
			OwnerEmail: u.Email,
			Total:      total,
			WinRate:    winRate,
			New:        byStatus[entity.StatusNew],
			Contacted:  byStatus[entity.StatusContacted],
			Qualified:  byStatus[entity.StatusQualified],
			Won:        byStatus[entity.StatusWon],
			Lost:       byStatus[entity.StatusLost],
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total > rows[j].Total
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-crm/internal/auth"
	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	activityWindowDays = 7
	leadWindowDays     = 30
)

// AnalyticsUseCase computa as agregações com escopo por papel/posse.
// Qualquer erro de persistência aborta a computação inteira: uma única
// falha agregada, nunca resultado parcial.
type AnalyticsUseCase struct {
	Leads      LeadRepository
	Activities ActivityRepository
	Users      UserRepository
	Cache      OverviewCache // opcional
	Now        func() time.Time
}

func NewAnalyticsUseCase(leads LeadRepository, activities ActivityRepository, users UserRepository, cache OverviewCache) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		Leads:      leads,
		Activities: activities,
		Users:      users,
		Cache:      cache,
		Now:        time.Now,
	}
}

func analyticsFailed(err error) error {
	return &TechnicalError{Code: "ANALYTICS_ERROR", Message: "failed to compute analytics: " + err.Error()}
}

// Overview resolve o escopo e computa distribuição por status, totais,
// win rate e as duas séries diárias.
//
// Escopo: SALES_EXEC é sempre restrito aos próprios leads, independente da
// flag mine; ADMIN/MANAGER só quando mine=true.
func (uc *AnalyticsUseCase) Overview(ctx context.Context, actor auth.Principal, mine bool) (*OverviewOutput, error) {
	scoped := actor.Role == entity.RoleSalesExec || mine

	filter := LeadFilter{}
	scope := "all"
	cacheKey := "overview:all"
	if scoped {
		filter.OwnerID = actor.ID
		scope = "mine"
		cacheKey = "overview:mine:" + actor.ID
	}

	if uc.Cache != nil {
		if out, ok := uc.Cache.Get(ctx, cacheKey); ok {
			return out, nil
		}
	}

	counts := make([]StatusCount, 0, len(entity.LeadStatuses))
	byStatus := make(map[string]int, len(entity.LeadStatuses))
	for _, s := range entity.LeadStatuses {
		f := filter
		f.Status = s
		n, err := uc.Leads.Count(ctx, f)
		if err != nil {
			return nil, analyticsFailed(err)
		}
		counts = append(counts, StatusCount{Status: s, Count: n})
		byStatus[s] = n
	}

	total, err := uc.Leads.Count(ctx, filter)
	if err != nil {
		return nil, analyticsFailed(err)
	}

	totals := OverviewTotals{
		Total:     total,
		New:       byStatus[entity.StatusNew],
		Contacted: byStatus[entity.StatusContacted],
		Qualified: byStatus[entity.StatusQualified],
		Won:       byStatus[entity.StatusWon],
		Lost:      byStatus[entity.StatusLost],
	}

	// winRate definido como 0 quando não há leads — nunca NaN.
	winRate := 0.0
	if total > 0 {
		winRate = float64(totals.Won) / float64(total)
	}

	// Escopo restrito filtra as séries pelo conjunto de ids dos leads do
	// dono; sem restrição as janelas cobrem tudo.
	var leadIDs []string
	if scoped {
		leadIDs, err = uc.Leads.IDsByOwner(ctx, actor.ID)
		if err != nil {
			return nil, analyticsFailed(err)
		}
	}

	now := uc.Now()

	start7 := dayWindowStart(now, activityWindowDays)
	activityDates, err := uc.Activities.DatesSince(ctx, start7, leadIDs)
	if err != nil {
		return nil, analyticsFailed(err)
	}

	start30 := dayWindowStart(now, leadWindowDays)
	leadDates, err := uc.Leads.CreationDatesSince(ctx, start30, leadIDs)
	if err != nil {
		return nil, analyticsFailed(err)
	}

	out := &OverviewOutput{
		Scope:          scope,
		CountsByStatus: counts,
		Totals:         totals,
		WinRate:        winRate,
		Activities7d:   buildDailySeries(activityDates, start7, activityWindowDays),
		Leads30d:       buildDailySeries(leadDates, start30, leadWindowDays),
	}

	if uc.Cache != nil {
		uc.Cache.Set(ctx, cacheKey, out)
	}
	return out, nil
}

// StatusDistribution conta leads por status, sem escopo, na ordem fixa.
func (uc *AnalyticsUseCase) StatusDistribution(ctx context.Context) ([]StatusCount, error) {
	counts := make([]StatusCount, 0, len(entity.LeadStatuses))
	for _, s := range entity.LeadStatuses {
		n, err := uc.Leads.Count(ctx, LeadFilter{Status: s})
		if err != nil {
			return nil, analyticsFailed(err)
		}
		counts = append(counts, StatusCount{Status: s, Count: n})
	}
	return counts, nil
}

// ActivitySeries7d é a série diária de activities dos últimos 7 dias, sem escopo.
func (uc *AnalyticsUseCase) ActivitySeries7d(ctx context.Context) ([]DateCount, error) {
	start := dayWindowStart(uc.Now(), activityWindowDays)
	dates, err := uc.Activities.DatesSince(ctx, start, nil)
	if err != nil {
		return nil, analyticsFailed(err)
	}
	return buildDailySeries(dates, start, activityWindowDays), nil
}

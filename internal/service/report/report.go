package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"casting-tracker/internal/storage"
	"casting-tracker/internal/tracking"
)

var ErrInvalidPeriod = errors.New("period must be one of day, week, month")

type Storage interface {
	ListTimedProductions(ctx context.Context, f storage.ProductionFilter) ([]storage.TimedProduction, error)
	OperatorTotals(ctx context.Context, from, to time.Time, operatorID string) ([]storage.OperatorTotal, error)
	ListOperators(ctx context.Context) ([]storage.Operator, error)
	ProductionTotals(ctx context.Context, serviceID, operatorID string) ([]storage.PieceOperatorTotal, error)
}

type Service struct {
	storage Storage
	now     func() time.Time
}

func NewReportService(storage Storage) *Service {
	return &Service{storage: storage, now: func() time.Time { return time.Now().UTC() }}
}

type OperatorStats struct {
	OperatorID   string `json:"operator_id"`
	OperatorName string `json:"operator_name"`
	Count        int    `json:"count"`
	AvgSeconds   int64  `json:"avg_seconds"`
	AvgFormatted string `json:"avg_formatted"`

	total int64
}

type PieceStats struct {
	PieceID        string          `json:"piece_id"`
	PieceName      string          `json:"piece_name"`
	ServiceID      string          `json:"service_id"`
	ServiceName    string          `json:"service_name"`
	Count          int             `json:"count"`
	TotalSeconds   int64           `json:"total_seconds"`
	AvgSeconds     int64           `json:"avg_seconds"`
	MinSeconds     int64           `json:"min_seconds"`
	MaxSeconds     int64           `json:"max_seconds"`
	TotalFormatted string          `json:"total_formatted"`
	AvgFormatted   string          `json:"avg_formatted"`
	MinFormatted   string          `json:"min_formatted"`
	MaxFormatted   string          `json:"max_formatted"`
	Operators      []OperatorStats `json:"operators"`
}

type DetailedRecord struct {
	ID               string     `json:"id"`
	PieceName        string     `json:"piece_name"`
	ServiceName      string     `json:"service_name"`
	OperatorName     string     `json:"operator_name"`
	StartedAt        *time.Time `json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at"`
	ElapsedSeconds   int64      `json:"elapsed_seconds"`
	ElapsedFormatted string     `json:"elapsed_formatted"`
	CreatedAt        time.Time  `json:"created_at"`
}

type TimeReport struct {
	Summary      []PieceStats     `json:"summary"`
	Detailed     []DetailedRecord `json:"detailed"`
	TotalRecords int              `json:"total_records"`
}

func serviceName(r storage.TimedProduction) string {
	return r.ServiceClient + " - " + r.ServiceDescription
}

func roundDiv(total int64, n int) int64 {
	if n == 0 {
		return 0
	}
	return int64(math.Round(float64(total) / float64(n)))
}

// BuildTimeReport groups timed records per piece, then per operator inside
// each piece. Groups keep the order in which they first appear.
func BuildTimeReport(records []storage.TimedProduction) *TimeReport {
	rep := &TimeReport{
		Summary:      []PieceStats{},
		Detailed:     make([]DetailedRecord, 0, len(records)),
		TotalRecords: len(records),
	}

	pieceIdx := map[string]int{}
	opIdx := map[string]map[string]int{}

	for _, r := range records {
		sec := r.ElapsedSeconds

		i, ok := pieceIdx[r.PieceID]
		if !ok {
			i = len(rep.Summary)
			pieceIdx[r.PieceID] = i
			opIdx[r.PieceID] = map[string]int{}
			rep.Summary = append(rep.Summary, PieceStats{
				PieceID:     r.PieceID,
				PieceName:   r.PieceName,
				ServiceID:   r.ServiceID,
				ServiceName: serviceName(r),
				MinSeconds:  sec,
				MaxSeconds:  sec,
				Operators:   []OperatorStats{},
			})
		}

		p := &rep.Summary[i]
		p.Count++
		p.TotalSeconds += sec
		p.MinSeconds = min(p.MinSeconds, sec)
		p.MaxSeconds = max(p.MaxSeconds, sec)

		j, ok := opIdx[r.PieceID][r.OperatorID]
		if !ok {
			j = len(p.Operators)
			opIdx[r.PieceID][r.OperatorID] = j
			p.Operators = append(p.Operators, OperatorStats{OperatorID: r.OperatorID, OperatorName: r.OperatorName})
		}
		o := &p.Operators[j]
		o.Count++
		o.total += sec

		rep.Detailed = append(rep.Detailed, DetailedRecord{
			ID:               r.ID,
			PieceName:        r.PieceName,
			ServiceName:      serviceName(r),
			OperatorName:     r.OperatorName,
			StartedAt:        r.StartedAt,
			FinishedAt:       r.FinishedAt,
			ElapsedSeconds:   sec,
			ElapsedFormatted: tracking.FormatShort(sec),
			CreatedAt:        r.CreatedAt,
		})
	}

	for i := range rep.Summary {
		p := &rep.Summary[i]
		p.AvgSeconds = roundDiv(p.TotalSeconds, p.Count)
		p.TotalFormatted = tracking.FormatShort(p.TotalSeconds)
		p.AvgFormatted = tracking.FormatShort(p.AvgSeconds)
		p.MinFormatted = tracking.FormatShort(p.MinSeconds)
		p.MaxFormatted = tracking.FormatShort(p.MaxSeconds)
		for j := range p.Operators {
			o := &p.Operators[j]
			o.AvgSeconds = roundDiv(o.total, o.Count)
			o.AvgFormatted = tracking.FormatShort(o.AvgSeconds)
		}
	}

	return rep
}

func (s *Service) TimeReport(ctx context.Context, f storage.ProductionFilter) (*TimeReport, error) {
	const op = "service.report.TimeReport"

	records, err := s.storage.ListTimedProductions(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return BuildTimeReport(records), nil
}

func (s *Service) Totals(ctx context.Context, serviceID, operatorID string) ([]storage.PieceOperatorTotal, error) {
	const op = "service.report.Totals"

	totals, err := s.storage.ProductionTotals(ctx, serviceID, operatorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return totals, nil
}

type RankingQuery struct {
	OperatorID string
	Period     string
	StartDate  *time.Time
	EndDate    *time.Time
}

type RankingEntry struct {
	OperatorID    string `json:"operator_id"`
	OperatorName  string `json:"operator_name"`
	TotalProduced int64  `json:"total_produced"`
}

type Ranking struct {
	Ranking   []RankingEntry `json:"ranking"`
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
}

// Window resolves the ranking interval. Explicit dates win over the period;
// a missing start means the epoch and the end date covers its whole day.
func Window(q RankingQuery, now time.Time) (from, to time.Time, err error) {
	if q.StartDate != nil || q.EndDate != nil {
		from = time.Unix(0, 0).UTC()
		if q.StartDate != nil {
			from = *q.StartDate
		}
		end := now
		if q.EndDate != nil {
			end = *q.EndDate
		}
		y, m, d := end.Date()
		to = time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), end.Location())
		return from, to, nil
	}

	switch q.Period {
	case "", "day":
		return now.Add(-24 * time.Hour), now, nil
	case "week":
		return now.AddDate(0, 0, -7), now, nil
	case "month":
		return now.AddDate(0, -1, 0), now, nil
	default:
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
}

// Ranking orders operators by produced quantity inside the window.
func (s *Service) Ranking(ctx context.Context, q RankingQuery) (*Ranking, error) {
	const op = "service.report.Ranking"

	from, to, err := Window(q, s.now())
	if err != nil {
		return nil, err
	}

	var (
		totals    []storage.OperatorTotal
		operators []storage.Operator
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.storage.OperatorTotals(gCtx, from, to, q.OperatorID)
		if err != nil {
			return fmt.Errorf("load totals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		operators, err = s.storage.ListOperators(gCtx)
		if err != nil {
			return fmt.Errorf("load operators: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	names := make(map[string]string, len(operators))
	for _, o := range operators {
		names[o.ID] = o.Name
	}

	entries := make([]RankingEntry, 0, len(totals))
	for _, t := range totals {
		name, ok := names[t.OperatorID]
		if !ok {
			name = "N/A"
		}
		entries = append(entries, RankingEntry{OperatorID: t.OperatorID, OperatorName: name, TotalProduced: t.Total})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalProduced != entries[j].TotalProduced {
			return entries[i].TotalProduced > entries[j].TotalProduced
		}
		return entries[i].OperatorName < entries[j].OperatorName
	})

	return &Ranking{Ranking: entries, StartDate: from, EndDate: to}, nil
}

package portfolio_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wakaladigital/wakala/internal/app/portfolio"
	"github.com/wakaladigital/wakala/internal/domain/models"
)

type stubSource struct {
	groups      []models.SavingsGroup
	groupsErr   error
	loans       []models.Loan
	loansErr    error
	investments map[int64][]models.Investment
	invErr      map[int64]error
	delay       time.Duration

	inFlight    int32
	maxInFlight int32
	mu          sync.Mutex
	cancelled   []int64
}

func (s *stubSource) ListGroups(ctx context.Context) ([]models.SavingsGroup, error) {
	return s.groups, s.groupsErr
}

func (s *stubSource) ListLoans(ctx context.Context) ([]models.Loan, error) {
	return s.loans, s.loansErr
}

func (s *stubSource) ListInvestments(ctx context.Context, groupID int64) ([]models.Investment, error) {
	n := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	for {
		cur := atomic.LoadInt32(&s.maxInFlight)
		if n <= cur || atomic.CompareAndSwapInt32(&s.maxInFlight, cur, n) {
			break
		}
	}
	if err := s.invErr[groupID]; err != nil {
		return nil, err
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			s.mu.Lock()
			s.cancelled = append(s.cancelled, groupID)
			s.mu.Unlock()
			return nil, ctx.Err()
		}
	}
	return s.investments[groupID], nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func groupsN(n int) []models.SavingsGroup {
	out := make([]models.SavingsGroup, n)
	for i := range out {
		out[i] = models.SavingsGroup{ID: int64(i + 1), TierLevel: 2}
	}
	return out
}

func TestBuildFeed_ExampleOrdering(t *testing.T) {
	loans := []models.Loan{{
		ID: 1, Amount: dec("100"), Status: models.LoanPending,
		CreatedAt: models.MustTimestamp("2024-01-01"),
	}}
	invs := []models.Investment{{
		ID: 2, Amount: dec("50"), CurrentValue: dec("60"),
		StartDate:      models.MustTimestamp("2024-02-01"),
		InvestmentType: models.InvestmentStocks,
	}}

	feed := portfolio.BuildFeed(loans, invs)
	if len(feed) != 2 {
		t.Fatalf("feed length = %d, want 2", len(feed))
	}
	if feed[0].Kind != portfolio.KindInvestment || feed[1].Kind != portfolio.KindLoan {
		t.Errorf("feed order = [%s, %s], want [INVESTMENT, LOAN]", feed[0].Kind, feed[1].Kind)
	}
	if !feed[0].CurrentValue.Equal(dec("60")) || feed[0].InvestmentType != models.InvestmentStocks {
		t.Errorf("investment row = %+v", feed[0])
	}
	if feed[1].Status != models.LoanPending {
		t.Errorf("loan row status = %s", feed[1].Status)
	}

	sum := portfolio.Summarize(portfolio.Snapshot{Loans: loans, Investments: invs})
	if sum.ActiveLoans != 1 {
		t.Errorf("ActiveLoans = %d, want 1", sum.ActiveLoans)
	}
	if !sum.TotalInvestmentValue.Equal(dec("60")) {
		t.Errorf("TotalInvestmentValue = %s, want 60", sum.TotalInvestmentValue)
	}
}

func TestBuildFeed_SortedNonIncreasingAndStable(t *testing.T) {
	same := models.MustTimestamp("2024-03-01T12:00:00Z")
	loans := []models.Loan{
		{ID: 1, CreatedAt: models.MustTimestamp("2024-01-10")},
		{ID: 2, CreatedAt: same},
		{ID: 3, CreatedAt: models.MustTimestamp("2024-05-01T00:00:00+03:00")},
	}
	invs := []models.Investment{
		{ID: 10, StartDate: same},
		{ID: 11, StartDate: models.MustTimestamp("2023-12-31")},
		{ID: 12, StartDate: models.MustTimestamp("2024-04-30T22:00:00Z")},
	}

	feed := portfolio.BuildFeed(loans, invs)
	for i := 1; i < len(feed); i++ {
		if feed[i].Date.After(feed[i-1].Date) {
			t.Fatalf("feed not sorted at %d: %v after %v", i, feed[i].Date.Time, feed[i-1].Date.Time)
		}
	}

	// 2024-05-01T00:00+03:00 is 2024-04-30T21:00Z, so investment 12 comes first.
	wantIDs := []int64{12, 3, 2, 10, 1, 11}
	for i, id := range wantIDs {
		if feed[i].ID != id {
			t.Errorf("feed[%d].ID = %d, want %d", i, feed[i].ID, id)
		}
	}
}

func TestRecent(t *testing.T) {
	feed := make([]portfolio.Activity, 7)
	tests := []struct {
		feed []portfolio.Activity
		n    int
		want int
	}{
		{feed, 5, 5},
		{feed[:3], 5, 3},
		{nil, 5, 0},
		{feed, 0, 0},
		{feed, -1, 0},
	}
	for _, tt := range tests {
		if got := len(portfolio.Recent(tt.feed, tt.n)); got != tt.want {
			t.Errorf("Recent(len %d, %d) = %d, want %d", len(tt.feed), tt.n, got, tt.want)
		}
	}
}

func TestCountActiveLoans(t *testing.T) {
	loans := []models.Loan{
		{Status: models.LoanPending},
		{Status: models.LoanApproved},
		{Status: models.LoanRejected},
		{Status: models.LoanPaid},
		{Status: models.LoanApproved},
	}
	if got := portfolio.CountActiveLoans(loans); got != 3 {
		t.Errorf("CountActiveLoans = %d, want 3", got)
	}
}

func TestTotalValue_Exact(t *testing.T) {
	invs := []models.Investment{
		{CurrentValue: dec("0.1")},
		{CurrentValue: dec("0.2")},
		{CurrentValue: dec("1000000.07")},
	}
	if got := portfolio.TotalValue(invs); !got.Equal(dec("1000000.37")) {
		t.Errorf("TotalValue = %s, want 1000000.37", got)
	}
}

func TestLoader_FlattensInGroupOrder(t *testing.T) {
	src := &stubSource{
		groups: groupsN(3),
		loans:  []models.Loan{{ID: 1, Status: models.LoanApproved}},
		investments: map[int64][]models.Investment{
			1: {{ID: 11, Group: 1, CurrentValue: dec("10")}},
			2: {},
			3: {{ID: 31, Group: 3, CurrentValue: dec("5.5")}, {ID: 32, Group: 3, CurrentValue: dec("4.5")}},
		},
	}

	snap := portfolio.NewLoader(src, nil).Load(context.Background())
	if !snap.Complete() {
		t.Fatalf("expected complete snapshot, got %+v", snap)
	}
	var ids []int64
	for _, inv := range snap.Investments {
		ids = append(ids, inv.ID)
	}
	want := []int64{11, 31, 32}
	if len(ids) != len(want) {
		t.Fatalf("investment ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("investment ids = %v, want %v", ids, want)
			break
		}
	}

	sum := portfolio.Summarize(snap)
	if sum.GroupCount != 3 || sum.InvestmentCount != 3 || sum.ActiveLoans != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if !sum.TotalInvestmentValue.Equal(dec("20")) {
		t.Errorf("TotalInvestmentValue = %s, want 20", sum.TotalInvestmentValue)
	}
}

func TestLoader_InvestmentFailureIsAllOrNothing(t *testing.T) {
	src := &stubSource{
		groups: groupsN(4),
		loans:  []models.Loan{{ID: 1, Status: models.LoanPending}},
		investments: map[int64][]models.Investment{
			1: {{ID: 11, CurrentValue: dec("10")}},
			2: {{ID: 21, CurrentValue: dec("10")}},
			4: {{ID: 41, CurrentValue: dec("10")}},
		},
		invErr: map[int64]error{3: errors.New("boom")},
	}

	snap := portfolio.NewLoader(src, nil).Load(context.Background())
	if snap.InvestmentsErr == nil {
		t.Fatal("expected InvestmentsErr")
	}
	if snap.Investments != nil {
		t.Errorf("expected no investments, got %d", len(snap.Investments))
	}
	if snap.GroupsErr != nil || len(snap.Groups) != 4 {
		t.Error("groups should survive an investment failure")
	}

	sum := portfolio.Summarize(snap)
	if sum.InvestmentsAvailable || sum.InvestmentCount != 0 || !sum.TotalInvestmentValue.IsZero() {
		t.Errorf("investment counters must not reflect a subset of groups: %+v", sum)
	}
	if sum.ActiveLoans != 1 || sum.GroupCount != 4 {
		t.Errorf("other counters should be unaffected: %+v", sum)
	}
	for _, a := range snap.Feed() {
		if a.Kind == portfolio.KindInvestment {
			t.Error("feed must not include investments from a partial load")
		}
	}
}

func TestLoader_FailureCancelsSiblings(t *testing.T) {
	src := &stubSource{
		groups: groupsN(3),
		invErr: map[int64]error{1: errors.New("boom")},
		delay:  5 * time.Second,
	}
	l := portfolio.NewLoader(src, nil)

	start := time.Now()
	snap := l.Load(context.Background())
	if time.Since(start) > 2*time.Second {
		t.Fatal("sibling fetches were not cancelled")
	}
	if snap.InvestmentsErr == nil {
		t.Fatal("expected InvestmentsErr")
	}
}

func TestLoader_LoansFailureKeepsGroups(t *testing.T) {
	src := &stubSource{
		groups:   groupsN(2),
		loansErr: errors.New("loans down"),
		investments: map[int64][]models.Investment{
			1: {{ID: 1, CurrentValue: dec("3")}},
		},
	}

	snap := portfolio.NewLoader(src, nil).Load(context.Background())
	if snap.LoansErr == nil || snap.Loans != nil {
		t.Error("expected loans to be unavailable")
	}
	if len(snap.Groups) != 2 || snap.InvestmentsErr != nil || len(snap.Investments) != 1 {
		t.Errorf("groups and investments should load: %+v", snap)
	}
	sum := portfolio.Summarize(snap)
	if sum.LoansAvailable || !sum.GroupsAvailable || !sum.InvestmentsAvailable {
		t.Errorf("availability flags = %+v", sum)
	}
}

func TestLoader_GroupsFailureMakesInvestmentsUnavailable(t *testing.T) {
	src := &stubSource{
		groupsErr: errors.New("groups down"),
		loans:     []models.Loan{{ID: 1, Status: models.LoanApproved}},
	}

	snap := portfolio.NewLoader(src, nil).Load(context.Background())
	if !errors.Is(snap.InvestmentsErr, portfolio.ErrGroupsUnavailable) {
		t.Errorf("InvestmentsErr = %v, want ErrGroupsUnavailable", snap.InvestmentsErr)
	}
	if len(snap.Loans) != 1 {
		t.Error("loans should still load")
	}
	if len(snap.Feed()) != 1 {
		t.Errorf("feed should hold the loan, got %d rows", len(snap.Feed()))
	}
}

func TestLoader_RespectsConcurrencyLimit(t *testing.T) {
	src := &stubSource{
		groups:      groupsN(12),
		investments: map[int64][]models.Investment{},
		delay:       20 * time.Millisecond,
	}
	l := &portfolio.Loader{Source: src, MaxConcurrency: 3}

	snap := l.Load(context.Background())
	if snap.InvestmentsErr != nil {
		t.Fatalf("unexpected error: %v", snap.InvestmentsErr)
	}
	if got := atomic.LoadInt32(&src.maxInFlight); got > 3 {
		t.Errorf("max in-flight = %d, want <= 3", got)
	}
}

func TestLoader_NoGroups(t *testing.T) {
	snap := portfolio.NewLoader(&stubSource{}, nil).Load(context.Background())
	if !snap.Complete() {
		t.Fatalf("expected complete snapshot: %+v", snap)
	}
	if snap.Investments == nil || len(snap.Investments) != 0 {
		t.Error("expected an empty, non-nil investment list")
	}
}

func TestLoader_ContextCancelled(t *testing.T) {
	src := &stubSource{
		groups: groupsN(2),
		delay:  5 * time.Second,
	}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	snap := portfolio.NewLoader(src, nil).Load(ctx)
	if !errors.Is(snap.InvestmentsErr, context.Canceled) {
		t.Errorf("InvestmentsErr = %v, want context.Canceled", snap.InvestmentsErr)
	}
}

func TestActivity_Title(t *testing.T) {
	loan := portfolio.Activity{Kind: portfolio.KindLoan}
	inv := portfolio.Activity{Kind: portfolio.KindInvestment, InvestmentType: models.InvestmentRealEstate}
	if loan.Title() != "Loan Application" {
		t.Errorf("loan title = %q", loan.Title())
	}
	if inv.Title() != "Investment: Real Estate" {
		t.Errorf("investment title = %q", inv.Title())
	}
}

func TestLoader_LoadInvestments(t *testing.T) {
	src := &stubSource{
		groups: groupsN(2),
		investments: map[int64][]models.Investment{
			1: {{ID: 11, CurrentValue: dec("10")}},
			2: {{ID: 21, CurrentValue: dec("15.5")}},
		},
		loansErr: errors.New("loans are never read here"),
	}

	groups, invs, err := portfolio.NewLoader(src, nil).LoadInvestments(context.Background())
	if err != nil {
		t.Fatalf("LoadInvestments: %v", err)
	}
	if len(groups) != 2 || len(invs) != 2 {
		t.Fatalf("got %d groups and %d investments", len(groups), len(invs))
	}
	if total := portfolio.TotalValue(invs); !total.Equal(dec("25.5")) {
		t.Errorf("total = %s, want 25.5", total)
	}

	src.invErr = map[int64]error{2: errors.New("boom")}
	groups, invs, err = portfolio.NewLoader(src, nil).LoadInvestments(context.Background())
	if err == nil || invs != nil {
		t.Errorf("partial load: err=%v investments=%v", err, invs)
	}
	if len(groups) != 2 {
		t.Error("groups should still be returned when investments fail")
	}

	src.groupsErr = errors.New("down")
	if _, _, err := portfolio.NewLoader(src, nil).LoadInvestments(context.Background()); !errors.Is(err, src.groupsErr) {
		t.Errorf("err = %v, want wrapped groups error", err)
	}
}

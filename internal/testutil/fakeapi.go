package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/wakaladigital/wakala/internal/app/apiclient"
	"github.com/wakaladigital/wakala/internal/domain/models"
)

// Credentials of the user every FakeAPI starts with.
const (
	FakeUsername = "amina"
	FakePassword = "secret"
	FakeToken    = "test-token"
)

// FakeAPI is an in-memory stand-in for the REST API, served over
// httptest. It keeps just enough state for handler and CLI tests:
// groups with memberships, per-group investments and contributions,
// loans with the server-side status table, and token auth.
type FakeAPI struct {
	Server *httptest.Server

	mu            sync.Mutex
	nextID        int64
	users         map[string]fakeAccount // by username
	tokens        map[string]models.User
	groups        []models.SavingsGroup
	investments   map[int64][]models.Investment
	contributions map[int64][]models.Contribution
	loans         []models.Loan
	failures      map[string]int
	delays        map[string]time.Duration
	calls         []string
}

type fakeAccount struct {
	password string
	user     models.User
}

// NewFakeAPI starts a fake API with one known user (FakeUsername) whose
// token is FakeToken. The server is closed when the test ends.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		nextID:        100,
		users:         make(map[string]fakeAccount),
		tokens:        make(map[string]models.User),
		investments:   make(map[int64][]models.Investment),
		contributions: make(map[int64][]models.Contribution),
		failures:      make(map[string]int),
		delays:        make(map[string]time.Duration),
	}
	u := models.User{ID: 1, Username: FakeUsername, Email: "amina@example.com", FirstName: "Amina", LastName: "Otieno"}
	f.users[u.Username] = fakeAccount{password: FakePassword, user: u}
	f.tokens[FakeToken] = u

	f.Server = httptest.NewServer(f.routes())
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the base URL to hand to apiclient.NewClient.
func (f *FakeAPI) URL() string { return f.Server.URL }

// Client returns an API client for f with retries disabled. It carries no
// token; use WithToken(FakeToken) for authenticated calls.
func (f *FakeAPI) Client(t testing.TB) *apiclient.Client {
	t.Helper()
	c, err := apiclient.NewClient(f.URL(), apiclient.WithRetryMax(0))
	if err != nil {
		t.Fatalf("apiclient.NewClient: %v", err)
	}
	return c
}

// Fail makes every request for "METHOD /path" answer with status.
func (f *FakeAPI) Fail(method, path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = status
}

// Delay holds every request for "METHOD /path" for d before answering.
func (f *FakeAPI) Delay(method, path string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays[method+" "+path] = d
}

// Calls returns the "METHOD /path" of every request served so far.
func (f *FakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Called reports how many times "METHOD /path" was requested.
func (f *FakeAPI) Called(method, path string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == method+" "+path {
			n++
		}
	}
	return n
}

func (f *FakeAPI) id() int64 {
	f.nextID++
	return f.nextID
}

// AddGroup stores g and returns it with an ID assigned when g.ID is zero.
func (f *FakeAPI) AddGroup(g models.SavingsGroup) models.SavingsGroup {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g.ID == 0 {
		g.ID = f.id()
	}
	if g.TierLevel == 0 {
		g.TierLevel = models.MinTierLevel
	}
	if g.RiskTolerance == "" {
		g.RiskTolerance = models.RiskMedium
	}
	f.groups = append(f.groups, g)
	return g
}

// AddInvestment stores inv under groupID.
func (f *FakeAPI) AddInvestment(groupID int64, inv models.Investment) models.Investment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inv.ID == 0 {
		inv.ID = f.id()
	}
	inv.Group = groupID
	f.investments[groupID] = append(f.investments[groupID], inv)
	return inv
}

// AddContribution stores c under groupID.
func (f *FakeAPI) AddContribution(groupID int64, c models.Contribution) models.Contribution {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == 0 {
		c.ID = f.id()
	}
	f.contributions[groupID] = append(f.contributions[groupID], c)
	return c
}

// AddLoan stores l; an empty status becomes PENDING.
func (f *FakeAPI) AddLoan(l models.Loan) models.Loan {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l.ID == 0 {
		l.ID = f.id()
	}
	if l.Status == "" {
		l.Status = models.LoanPending
	}
	f.loans = append(f.loans, l)
	return l
}

// Groups returns a copy of the stored groups.
func (f *FakeAPI) Groups() []models.SavingsGroup {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.SavingsGroup(nil), f.groups...)
}

// Loans returns a copy of the stored loans.
func (f *FakeAPI) Loans() []models.Loan {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Loan(nil), f.loans...)
}

// Investments returns a copy of the investments stored under groupID.
func (f *FakeAPI) Investments(groupID int64) []models.Investment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Investment(nil), f.investments[groupID]...)
}

// Contributions returns a copy of the contributions stored under groupID.
func (f *FakeAPI) Contributions(groupID int64) []models.Contribution {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Contribution(nil), f.contributions[groupID]...)
}

func (f *FakeAPI) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(f.record)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/auth/login", f.login)

	r.Group(func(pr chi.Router) {
		pr.Use(f.requireToken)
		pr.Post("/auth/logout", f.logout)
		pr.Get("/groups", f.listGroups)
		pr.Post("/groups", f.createGroup)
		pr.Get("/groups/{id}", f.getGroup)
		pr.Post("/groups/{id}/join_group", f.joinGroup)
		pr.Get("/groups/{id}/members", f.listMembers)
		pr.Get("/groups/{id}/investments", f.listInvestments)
		pr.Post("/groups/{id}/investments", f.createInvestment)
		pr.Get("/groups/{id}/contributions", f.listContributions)
		pr.Post("/groups/{id}/contributions", f.createContribution)
		pr.Get("/loans", f.listLoans)
		pr.Post("/loans", f.createLoan)
		pr.Patch("/loans/{id}", f.updateLoan)
	})
	return r
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		f.mu.Lock()
		f.calls = append(f.calls, key)
		status, failing := f.failures[key]
		delay := f.delays[key]
		f.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if failing {
			writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type userKey struct{}

func (f *FakeAPI) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		_, ok := f.tokens[token]
		f.mu.Unlock()
		if token == "" || !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) caller(r *http.Request) models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fieldErrors(w http.ResponseWriter, fields map[string][]string) {
	writeJSON(w, http.StatusBadRequest, fields)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}
	f.mu.Lock()
	acct, ok := f.users[in.Username]
	f.mu.Unlock()
	if !ok || acct.password != in.Password {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"non_field_errors": {"Unable to log in with provided credentials."}})
		return
	}
	writeJSON(w, http.StatusOK, apiclient.Session{Token: FakeToken, User: acct.user})
}

func (f *FakeAPI) logout(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeAPI) listGroups(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, f.Groups())
}

func (f *FakeAPI) findGroup(id int64) (int, bool) {
	for i, g := range f.groups {
		if g.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (f *FakeAPI) getGroup(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	f.mu.Lock()
	i, ok := f.findGroup(id)
	var g models.SavingsGroup
	if ok {
		g = f.groups[i]
	}
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (f *FakeAPI) createGroup(w http.ResponseWriter, r *http.Request) {
	var in models.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}
	errs := map[string][]string{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = []string{"This field is required."}
	}
	if !in.RiskTolerance.Valid() {
		errs["risk_tolerance"] = []string{`"` + string(in.RiskTolerance) + `" is not a valid choice.`}
	}
	if in.TierLevel < models.MinTierLevel || in.TierLevel > models.MaxTierLevel {
		errs["tier_level"] = []string{"Ensure this value is between 1 and 3."}
	}
	if len(errs) > 0 {
		fieldErrors(w, errs)
		return
	}
	caller := f.caller(r)
	f.mu.Lock()
	g := models.SavingsGroup{
		ID:            f.id(),
		Name:          in.Name,
		Description:   in.Description,
		RiskTolerance: in.RiskTolerance,
		TierLevel:     in.TierLevel,
		TotalBalance:  decimal.Zero,
		CreatedAt:     models.NewTimestamp(time.Now()),
	}
	g.Members = []models.GroupMembership{{ID: f.id(), User: caller.ID, Group: g.ID, Role: models.RoleAdmin, JoinedAt: g.CreatedAt}}
	f.groups = append(f.groups, g)
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, g)
}

func (f *FakeAPI) joinGroup(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	caller := f.caller(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.findGroup(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	for _, m := range f.groups[i].Members {
		if m.User == caller.ID {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Already a member of this group."})
			return
		}
	}
	m := models.GroupMembership{ID: f.id(), User: caller.ID, Group: id, Role: models.RoleMember, JoinedAt: models.NewTimestamp(time.Now())}
	f.groups[i].Members = append(f.groups[i].Members, m)
	writeJSON(w, http.StatusOK, map[string]string{"status": "joined"})
}

func (f *FakeAPI) listMembers(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.findGroup(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	byID := make(map[int64]models.User, len(f.users))
	for _, a := range f.users {
		byID[a.user.ID] = a.user
	}
	out := make([]models.MemberDetail, 0, len(f.groups[i].Members))
	for _, m := range f.groups[i].Members {
		u, ok := byID[m.User]
		if !ok {
			u = models.User{ID: m.User, Username: "user" + strconv.FormatInt(m.User, 10)}
		}
		out = append(out, models.MemberDetail{
			ID: m.ID, User: u, Group: m.Group, Role: m.Role,
			ContributionLimit: m.ContributionLimit, JoinedAt: m.JoinedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) listInvestments(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	writeJSON(w, http.StatusOK, f.Investments(id))
}

func (f *FakeAPI) createInvestment(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	var in models.CreateInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}
	f.mu.Lock()
	i, ok := f.findGroup(id)
	var g models.SavingsGroup
	if ok {
		g = f.groups[i]
	}
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	if !g.CanInvest() {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Group tier does not allow investments."})
		return
	}
	errs := map[string][]string{}
	if !in.InvestmentType.Valid() {
		errs["investment_type"] = []string{"Select a valid choice."}
	}
	if !in.Amount.IsPositive() {
		errs["amount"] = []string{"Ensure this value is greater than 0."}
	}
	if strings.TrimSpace(in.Provider) == "" {
		errs["provider"] = []string{"This field is required."}
	}
	if len(errs) > 0 {
		fieldErrors(w, errs)
		return
	}
	inv := f.AddInvestment(id, models.Investment{
		InvestmentType:   in.InvestmentType,
		Amount:           in.Amount,
		CurrentValue:     in.Amount,
		Provider:         in.Provider,
		AnnualReturnRate: in.AnnualReturnRate,
		StartDate:        models.NewTimestamp(time.Now()),
	})
	writeJSON(w, http.StatusCreated, inv)
}

func (f *FakeAPI) listContributions(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	writeJSON(w, http.StatusOK, f.Contributions(id))
}

func (f *FakeAPI) createContribution(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	var in models.CreateContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}
	caller := f.caller(r)
	f.mu.Lock()
	i, ok := f.findGroup(id)
	var member int64
	if ok {
		for _, m := range f.groups[i].Members {
			if m.User == caller.ID {
				member = m.ID
			}
		}
	}
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	if member == 0 {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "You are not a member of this group."})
		return
	}
	if !in.Amount.IsPositive() {
		fieldErrors(w, map[string][]string{"amount": {"Ensure this value is greater than 0."}})
		return
	}
	c := f.AddContribution(id, models.Contribution{
		Member:          member,
		Amount:          in.Amount,
		TransactionType: in.TransactionType,
		Timestamp:       models.NewTimestamp(time.Now()),
	})
	writeJSON(w, http.StatusCreated, c)
}

func (f *FakeAPI) listLoans(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, f.Loans())
}

func (f *FakeAPI) createLoan(w http.ResponseWriter, r *http.Request) {
	var in models.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}
	errs := map[string][]string{}
	if !in.Amount.IsPositive() {
		errs["amount"] = []string{"Ensure this value is greater than 0."}
	}
	due, err := models.ParseTimestamp(in.DueDate)
	if err != nil {
		errs["due_date"] = []string{"Date has wrong format. Use YYYY-MM-DD."}
	}
	if len(errs) > 0 {
		fieldErrors(w, errs)
		return
	}
	caller := f.caller(r)
	l := f.AddLoan(models.Loan{
		Borrower:     caller.ID,
		Amount:       in.Amount,
		InterestRate: in.InterestRate,
		DueDate:      due,
		CreatedAt:    models.NewTimestamp(time.Now()),
	})
	writeJSON(w, http.StatusCreated, l)
}

func (f *FakeAPI) updateLoan(w http.ResponseWriter, r *http.Request) {
	id, _ := pathID(r)
	var in models.UpdateLoanStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed body"})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.loans {
		if l.ID != id {
			continue
		}
		if !l.Status.CanTransitionTo(in.Status) {
			fieldErrors(w, map[string][]string{"status": {"Cannot change status from " + string(l.Status) + " to " + string(in.Status) + "."}})
			return
		}
		f.loans[i].Status = in.Status
		writeJSON(w, http.StatusOK, f.loans[i])
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

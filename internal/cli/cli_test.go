package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wakaladigital/wakala/internal/domain/models"
	"github.com/wakaladigital/wakala/internal/testutil"
)

// run executes wakalactl against api and returns stdout and stderr.
func run(t *testing.T, api *testutil.FakeAPI, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--api-url", api.URL(), "--token", testutil.FakeToken, "--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seed(api *testutil.FakeAPI) (models.SavingsGroup, models.SavingsGroup) {
	chama := api.AddGroup(models.SavingsGroup{
		Name:          "Umoja Chama",
		TierLevel:     2,
		RiskTolerance: models.RiskLow,
		TotalBalance:  dec("1500.50"),
		Members:       []models.GroupMembership{{ID: 1, User: 1, Role: models.RoleAdmin}},
	})
	harambee := api.AddGroup(models.SavingsGroup{Name: "Harambee Savers", TotalBalance: dec("200")})
	api.AddInvestment(chama.ID, models.Investment{
		InvestmentType: models.InvestmentBonds, Amount: dec("1000"), CurrentValue: dec("1010.25"),
		Provider: "CBK", AnnualReturnRate: dec("9.5"), StartDate: models.MustTimestamp("2024-03-01"),
	})
	api.AddInvestment(chama.ID, models.Investment{
		InvestmentType: models.InvestmentUnitTrust, Amount: dec("1000"), CurrentValue: dec("1000"),
		Provider: "CIC", AnnualReturnRate: dec("11"), StartDate: models.MustTimestamp("2024-06-01"),
	})
	return chama, harambee
}

func TestRoot_RequiresToken(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--api-url", api.URL(), "groups", "list"})

	err := cmd.Execute()
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Empty(t, api.Calls())
}

func TestRoot_RejectsUnknownOutput(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	_, _, err := run(t, api, "--output", "yaml", "groups", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestRoot_TokenFromEnv(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	seed(api)
	t.Setenv("WAKALA_TOKEN", testutil.FakeToken)
	t.Setenv("WAKALA_API_URL", api.URL())

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--no-color", "groups", "list"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Umoja Chama")
}

func TestGroupsList(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	seed(api)

	out, _, err := run(t, api, "groups", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Umoja Chama")
	assert.Contains(t, out, "Harambee Savers")
	assert.Contains(t, out, "$1,500.50")
	assert.Contains(t, out, "LOW")
}

func TestGroupsList_JSON(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	seed(api)

	out, _, err := run(t, api, "-o", "json", "groups", "list")
	require.NoError(t, err)

	var groups []models.SavingsGroup
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	require.Len(t, groups, 2)
	assert.True(t, groups[0].TotalBalance.Equal(dec("1500.50")))
}

func TestGroupsList_BadToken(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--api-url", api.URL(), "--token", "wrong", "groups", "list"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, describe(err), "rejected the token")
}

func TestGroupsShow(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	chama, _ := seed(api)
	for i := 1; i <= 7; i++ {
		api.AddContribution(chama.ID, models.Contribution{
			Amount:          decimal.NewFromInt(int64(i * 10)),
			TransactionType: models.TransactionDeposit,
			Timestamp:       models.MustTimestamp(fmt.Sprintf("2024-01-%02d", i)),
		})
	}

	out, _, err := run(t, api, "-o", "json", "groups", "show", itoa(chama.ID))
	require.NoError(t, err)

	var d groupDetail
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, "Umoja Chama", d.Group.Name)
	assert.Len(t, d.Investments, 2)
	require.Len(t, d.Contributions, recentContributions)
	assert.True(t, d.Contributions[0].Amount.Equal(dec("70")), "newest first")
	assert.True(t, d.Contributions[4].Amount.Equal(dec("30")))
}

func TestGroupsShow_InvalidID(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	_, _, err := run(t, api, "groups", "show", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid id")
	assert.Empty(t, api.Calls())
}

func TestGroupsShow_NotFound(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	_, _, err := run(t, api, "groups", "show", "999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load group 999")
}

func TestInvestmentsList(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	seed(api)

	out, _, err := run(t, api, "investments", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "CBK")
	assert.Contains(t, out, "Umoja Chama")
	assert.Contains(t, out, "total value $2,010.25")
	assert.Less(t, bytes.Index([]byte(out), []byte("CIC")), bytes.Index([]byte(out), []byte("CBK")), "newest first")
}

func TestInvestmentsList_FailureIsAllOrNothing(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	_, harambee := seed(api)
	api.Fail("GET", "/groups/"+itoa(harambee.ID)+"/investments", http.StatusInternalServerError)

	out, _, err := run(t, api, "investments", "list")
	require.Error(t, err)
	assert.Empty(t, out)
}

func TestDashboard(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	seed(api)
	api.AddLoan(models.Loan{Amount: dec("5000"), InterestRate: dec("10"), Status: models.LoanPending,
		DueDate: models.MustTimestamp("2099-06-30"), CreatedAt: models.MustTimestamp("2024-07-01")})
	api.AddLoan(models.Loan{Amount: dec("800"), InterestRate: dec("8"), Status: models.LoanPaid,
		CreatedAt: models.MustTimestamp("2023-01-01")})

	out, _, err := run(t, api, "-o", "json", "dashboard")
	require.NoError(t, err)

	var d dashboardJSON
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	require.NotNil(t, d.TotalGroups)
	assert.Equal(t, 2, *d.TotalGroups)
	assert.Equal(t, 2, *d.ActiveInvestments)
	assert.True(t, d.TotalInvestmentValue.Equal(dec("2010.25")))
	assert.Equal(t, 1, *d.ActiveLoans)
	require.Len(t, d.RecentActivity, 4)
	assert.Equal(t, "Loan Application", d.RecentActivity[0].Title)
	assert.Empty(t, d.Unavailable)
}

func TestDashboard_LoansUnavailable(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	seed(api)
	api.Fail("GET", "/loans", http.StatusServiceUnavailable)

	out, errOut, err := run(t, api, "dashboard")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Failed to load loans.")
	assert.Contains(t, out, "unavailable")
	assert.Contains(t, out, "$2,010.25")
}

func TestLoansList(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.AddLoan(models.Loan{Amount: dec("5000"), InterestRate: dec("10"), Status: models.LoanPending,
		CreatedAt: models.MustTimestamp("2024-07-01")})
	api.AddLoan(models.Loan{Amount: dec("800"), InterestRate: dec("8"), Status: models.LoanApproved,
		CreatedAt: models.MustTimestamp("2024-01-01")})

	out, _, err := run(t, api, "loans", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "$5,000.00")
	assert.Contains(t, out, "approve, reject")
	assert.Contains(t, out, "pay")
}

func TestLoanActions(t *testing.T) {
	tests := []struct {
		name    string
		status  models.LoanStatus
		verb    string
		want    models.LoanStatus
		wantErr error
	}{
		{"approve pending", models.LoanPending, "approve", models.LoanApproved, nil},
		{"reject pending", models.LoanPending, "reject", models.LoanRejected, nil},
		{"pay approved", models.LoanApproved, "pay", models.LoanPaid, nil},
		{"pay pending", models.LoanPending, "pay", models.LoanPending, ErrIllegalTransition},
		{"approve paid", models.LoanPaid, "approve", models.LoanPaid, ErrIllegalTransition},
		{"reject rejected", models.LoanRejected, "reject", models.LoanRejected, ErrIllegalTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := testutil.NewFakeAPI(t)
			loan := api.AddLoan(models.Loan{Amount: dec("100"), InterestRate: dec("5"), Status: tt.status})

			out, _, err := run(t, api, "loans", tt.verb, itoa(loan.ID))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, api.Called("PATCH", "/loans/"+itoa(loan.ID)), "refused locally")
			} else {
				require.NoError(t, err)
				assert.Contains(t, out, "is now "+string(tt.want))
			}
			assert.Equal(t, tt.want, api.Loans()[0].Status)
		})
	}
}

func TestLoanAction_NotFound(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	_, _, err := run(t, api, "loans", "approve", "42")
	assert.ErrorIs(t, err, ErrLoanNotFound)
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

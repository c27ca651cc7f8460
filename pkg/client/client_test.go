package client

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stellar/go/clients/horizonclient"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/support/render/problem"
	"github.com/stellar/go/txnbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeHorizon returns scripted results for each endpoint.
type fakeHorizon struct {
	accountErr error
	feeStats   hProtocol.FeeStats
	calls      int
}

func (f *fakeHorizon) AccountDetail(horizonclient.AccountRequest) (hProtocol.Account, error) {
	f.calls++
	if f.accountErr != nil {
		return hProtocol.Account{}, f.accountErr
	}
	return hProtocol.Account{AccountID: "GTEST", Sequence: 42}, nil
}

func (f *fakeHorizon) SubmitTransaction(*txnbuild.Transaction) (hProtocol.Transaction, error) {
	f.calls++
	return hProtocol.Transaction{Hash: "abc"}, nil
}

func (f *fakeHorizon) FeeStats() (hProtocol.FeeStats, error) {
	f.calls++
	return f.feeStats, nil
}

func newTestClient(horizons ...Horizon) *Client {
	endpoints := make([]string, len(horizons))
	for i := range horizons {
		endpoints[i] = fmt.Sprintf("https://horizon-%d.example.com", i)
	}
	return &Client{
		logger:    zerolog.Nop(),
		endpoints: endpoints,
		horizons:  horizons,
	}
}

func TestNewClient_RequiresEndpoints(t *testing.T) {
	_, err := NewClient(Config{Logger: zerolog.Nop()})
	require.ErrorIs(t, err, ErrNoEndpointsRequired)
}

func TestLoadAccount(t *testing.T) {
	c := newTestClient(&fakeHorizon{})

	account, err := c.LoadAccount(context.Background(), "GTEST")
	require.NoError(t, err)
	assert.Equal(t, "GTEST", account.AccountID)
	assert.EqualValues(t, 42, account.Sequence)
}

func TestWithFailover_RotatesOnTransientError(t *testing.T) {
	broken := &fakeHorizon{accountErr: errors.New("dial tcp: connection refused")}
	healthy := &fakeHorizon{}
	c := newTestClient(broken, healthy)

	account, err := c.LoadAccount(context.Background(), "GTEST")
	require.NoError(t, err)
	assert.Equal(t, "GTEST", account.AccountID)
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, 1, healthy.calls)
	assert.Equal(t, c.endpoints[1], c.CurrentEndpoint())
}

func TestWithFailover_RejectionNotRetried(t *testing.T) {
	rejected := &fakeHorizon{accountErr: &horizonclient.Error{
		Problem: problem.P{Title: "Resource Missing", Status: 404},
	}}
	healthy := &fakeHorizon{}
	c := newTestClient(rejected, healthy)

	_, err := c.LoadAccount(context.Background(), "GTEST")
	require.Error(t, err)
	assert.Equal(t, 1, rejected.calls)
	assert.Zero(t, healthy.calls, "structured rejections must not rotate endpoints")
}

func TestWithFailover_AllEndpointsFail(t *testing.T) {
	transient := errors.New("request timeout")
	c := newTestClient(&fakeHorizon{accountErr: transient}, &fakeHorizon{accountErr: transient})

	_, err := c.LoadAccount(context.Background(), "GTEST")
	require.ErrorIs(t, err, transient)
}

func TestMinimumFee(t *testing.T) {
	c := newTestClient(&fakeHorizon{feeStats: hProtocol.FeeStats{LastLedgerBaseFee: 100}})

	fee, err := c.MinimumFee(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 100, fee)
}

func TestTranslate(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, Translate(nil))
	})

	t.Run("horizon rejection with result code", func(t *testing.T) {
		raw := &horizonclient.Error{
			Problem: problem.P{
				Title:  "Transaction Failed",
				Status: 400,
				Extras: map[string]interface{}{
					"result_codes": map[string]interface{}{
						"transaction": TxInsufficientBalance,
					},
				},
			},
		}

		err := Translate(raw)
		var hErr *HorizonError
		require.ErrorAs(t, err, &hErr)
		assert.Equal(t, TxInsufficientBalance, hErr.ResultTransactionCode)
		assert.True(t, IsInsufficientBalance(err))
	})

	t.Run("horizon rejection without result code", func(t *testing.T) {
		raw := &horizonclient.Error{
			Problem: problem.P{Title: "Rate Limit Exceeded", Status: 429},
		}

		err := Translate(raw)
		var hErr *HorizonError
		require.ErrorAs(t, err, &hErr)
		assert.Empty(t, hErr.ResultTransactionCode)
		assert.False(t, IsInsufficientBalance(err))
	})

	t.Run("transport failure", func(t *testing.T) {
		raw := errors.New("connection reset by peer")

		err := Translate(raw)
		var nErr *NetworkError
		require.ErrorAs(t, err, &nErr)
		assert.ErrorIs(t, err, raw)
		assert.False(t, IsInsufficientBalance(err))
	})
}

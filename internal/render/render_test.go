package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/whalewatch/whale-alert/internal/domain"
	"github.com/whalewatch/whale-alert/internal/render"
)

const usdcMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

func testJob() *domain.AlertJob {
	return &domain.AlertJob{
		ID:          "01JABCDEF0123456789ABCDEFG",
		Signature:   "5K3kkXJsemZivBXab5QPaVJ1JCXHUmGbzoUWp76sWmTr",
		Amount:      1234567,
		FromAccount: "FromAcc111111111111111111111111111111111111",
		ToAccount:   "ToAcc1111111111111111111111111111111111111",
		Mint:        usdcMint,
	}
}

func TestMessage_ContainsAllFields(t *testing.T) {
	r := render.NewRenderer("https://solscan.io")
	msg := r.Message(testJob())

	assert.Contains(t, msg, "*Whale Alert*")
	assert.Contains(t, msg, "https://solscan.io/tx/5K3kkXJsemZivBXab5QPaVJ1JCXHUmGbzoUWp76sWmTr")
	assert.Contains(t, msg, "https://solscan.io/account/FromAcc111111111111111111111111111111111111")
	assert.Contains(t, msg, "https://solscan.io/account/ToAcc1111111111111111111111111111111111111")
	assert.Contains(t, msg, "https://solscan.io/token/"+usdcMint)
}

func TestMessage_AmountGrouping(t *testing.T) {
	r := render.NewRenderer("https://solscan.io")
	msg := r.Message(testJob())

	assert.Contains(t, msg, "`1,234,567 USDC`")
}

func TestMessage_UnknownMintLabel(t *testing.T) {
	job := testJob()
	job.Mint = "SomeOtherMint111111111111111111111111111111"

	r := render.NewRenderer("https://solscan.io")
	msg := r.Message(job)

	assert.Contains(t, msg, "tokens`")
	assert.Contains(t, msg, "https://solscan.io/token/SomeOtherMint111111111111111111111111111111")
}

func TestMessage_TrailingSlashInBaseURL(t *testing.T) {
	r := render.NewRenderer("https://solscan.io/")
	msg := r.Message(testJob())

	assert.NotContains(t, msg, "solscan.io//")
}

func TestMessage_Deterministic(t *testing.T) {
	// the ingestion path and the delivery worker must render identical text
	r := render.NewRenderer("https://solscan.io")
	assert.Equal(t, r.Message(testJob()), r.Message(testJob()))
}

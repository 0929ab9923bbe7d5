// Package render builds the human-readable whale alert message. Rendering
// is deterministic given the job fields, so the ingestion path and the
// delivery worker produce identical text for the same job.
package render

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/whalewatch/whale-alert/internal/domain"
)

// Renderer renders Markdown alert messages with block explorer links
type Renderer struct {
	explorerBaseURL string
	printer         *message.Printer
}

// NewRenderer creates a renderer. explorerBaseURL is the block explorer
// root, e.g. "https://solscan.io".
func NewRenderer(explorerBaseURL string) *Renderer {
	return &Renderer{
		explorerBaseURL: strings.TrimRight(explorerBaseURL, "/"),
		printer:         message.NewPrinter(language.English),
	}
}

// Message renders the Markdown whale alert for a job. It includes the
// transaction signature, the amount with grouping separators, the source
// and destination accounts and the mint, each linked to the explorer as
// {base}/{kind}/{value}.
func (r *Renderer) Message(job *domain.AlertJob) string {
	var b strings.Builder

	b.WriteString("🚨 *Whale Alert* 🚨\n\n")
	b.WriteString(fmt.Sprintf("💸 *Transaction*: [🅃](%s) `%s`\n\n",
		r.link("tx", job.Signature.String()), job.Signature))
	b.WriteString(fmt.Sprintf("💰 *Amount*: `%s %s`\n\n",
		r.printer.Sprintf("%d", job.Amount), assetLabel(job.Mint)))
	b.WriteString(fmt.Sprintf("🔄 *From*: [🅵](%s) `%s`\n\n",
		r.link("account", job.FromAccount), job.FromAccount))
	b.WriteString(fmt.Sprintf("🔜 *To*: [🅸](%s) `%s`\n\n",
		r.link("account", job.ToAccount), job.ToAccount))
	b.WriteString(fmt.Sprintf("💳 *Mint*: [🅼](%s) `%s`\n",
		r.link("token", job.Mint), job.Mint))

	return b.String()
}

func (r *Renderer) link(kind, value string) string {
	return fmt.Sprintf("%s/%s/%s", r.explorerBaseURL, kind, value)
}

// assetLabel maps well-known mints to their ticker; everything else is
// shown by mint address in the Mint line anyway
func assetLabel(mint string) string {
	switch mint {
	case "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v":
		return "USDC"
	case "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB":
		return "USDT"
	default:
		return "tokens"
	}
}

// Command loadgen posts synthetic webhook payloads at the ingestion API and
// reports how each delivery was classified. Useful for exercising the
// admission and dedup paths against a running instance.
package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

var (
	target     = flag.String("target", "http://127.0.0.1:3000/alert/webhook", "Webhook endpoint URL")
	count      = flag.Int("count", 100, "Number of webhook deliveries to send")
	workers    = flag.Int("workers", 8, "Concurrent senders")
	mint       = flag.String("mint", "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", "Mint to put in transfers")
	amount     = flag.Uint64("amount", 150000, "Transfer amount")
	duplicates = flag.Int("duplicates", 0, "Extra redeliveries per signature")
)

type transfer struct {
	TokenAmount     uint64 `json:"tokenAmount"`
	Mint            string `json:"mint"`
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
}

type transaction struct {
	Signature      string     `json:"signature"`
	TokenTransfers []transfer `json:"tokenTransfers"`
}

func randomSignature() string {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

func payloadFor(sig string) []byte {
	data, err := json.Marshal([]transaction{{
		Signature: sig,
		TokenTransfers: []transfer{{
			TokenAmount:     *amount,
			Mint:            *mint,
			FromUserAccount: "LoadGenFrom11111111111111111111111111111111",
			ToUserAccount:   "LoadGenTo111111111111111111111111111111111",
		}},
	}})
	if err != nil {
		panic(err)
	}
	return data
}

func main() {
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}
	jobs := make(chan []byte, *workers)

	var sent, ok, throttled, failed atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for body := range jobs {
				req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, *target, bytes.NewReader(body))
				if err != nil {
					failed.Add(1)
					continue
				}
				req.Header.Set("Content-Type", "application/json")

				resp, err := client.Do(req)
				sent.Add(1)
				if err != nil {
					failed.Add(1)
					continue
				}
				_ = resp.Body.Close()

				switch {
				case resp.StatusCode == http.StatusTooManyRequests:
					throttled.Add(1)
				case resp.StatusCode >= 200 && resp.StatusCode < 300:
					ok.Add(1)
				default:
					failed.Add(1)
				}
			}
		}()
	}

	start := time.Now()
	for i := 0; i < *count; i++ {
		sig := randomSignature()
		body := payloadFor(sig)
		jobs <- body
		for d := 0; d < *duplicates; d++ {
			jobs <- body
		}
	}
	close(jobs)
	wg.Wait()

	elapsed := time.Since(start)
	fmt.Printf("sent=%d ok=%d throttled=%d failed=%d in %s (%.1f req/s)\n",
		sent.Load(), ok.Load(), throttled.Load(), failed.Load(),
		elapsed.Round(time.Millisecond),
		float64(sent.Load())/elapsed.Seconds(),
	)

	if failed.Load() > 0 {
		os.Exit(1)
	}
}

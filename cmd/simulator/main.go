// Command simulator drives a round server over the websocket duplex channel:
// it submits round state and transcriptions, reads the live bet board, places
// a wager, and prints every push frame the server sends back. Useful for
// exercising the channel coordinator against a real server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/beargallbladder/fairwaylive/internal/coordinator"
	"github.com/beargallbladder/fairwaylive/internal/domain"
	"github.com/beargallbladder/fairwaylive/internal/game"
	"github.com/beargallbladder/fairwaylive/internal/platform/logging"
	"github.com/beargallbladder/fairwaylive/internal/websocket"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/ws", "round server websocket endpoint")
	flag.Parse()

	logging.InitLogger("info", "text")

	client, err := websocket.Dial(*url)
	if err != nil {
		slog.Error("dial failed", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	deviceCtx := &coordinator.StaticContext{BatteryLevel: 0.85, NetworkType: "lte"}
	coord := coordinator.New(client, deviceCtx, clockwork.NewRealClock())
	coord.Start()
	defer coord.Stop()

	coord.RegisterPushHandler(websocket.PushOddsUpdate, func(payload json.RawMessage) {
		fmt.Printf("  << odds moved: %s\n", payload)
	})
	coord.RegisterPushHandler(websocket.PushSettlements, func(payload json.RawMessage) {
		fmt.Printf("  << settled: %s\n", payload)
	})
	coord.RegisterPushHandler(websocket.PushPrediction, func(payload json.RawMessage) {
		fmt.Printf("  << prediction: %s\n", payload)
	})

	go client.ReadLoop(coord.HandleMessage)

	if err := runRound(coord, deviceCtx); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}

	// let trailing pushes drain before closing
	time.Sleep(500 * time.Millisecond)
}

func runRound(coord *coordinator.Coordinator, deviceCtx *coordinator.StaticContext) error {
	ctx := context.Background()

	fmt.Println("-- submitting round state")
	board, err := coord.Send(ctx, game.OpGetLiveBets, map[string]any{
		"round": domain.RoundState{RoundID: "sim-round", Hole: 7, Par: 4},
		"players": []domain.Player{
			{ID: "p1", Name: "Ava", TotalStrokes: 30, OnGreen: true},
			{ID: "p2", Name: "Ben", TotalStrokes: 31},
		},
	}, coordinator.Options{SkipCache: true})
	if err != nil {
		return fmt.Errorf("live bets: %w", err)
	}
	fmt.Printf("  board: %s\n", board)

	fmt.Println("-- analyzing a confident transcription")
	result, err := coord.Send(ctx, game.OpAnalyzeTranscription, map[string]any{
		"playerId": "p1",
		"text":     "I crushed that drive, pure money",
	}, coordinator.Options{SkipCache: true})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	fmt.Printf("  analysis: %s\n", result)

	var analysis game.AnalyzeResult
	if err := json.Unmarshal(result, &analysis); err == nil {
		// later requests carry the mood along as ambient context
		deviceCtx.SentimentAvg = analysis.MarketMood
	}

	fmt.Println("-- placing a wager at high priority")
	placed, err := coord.Send(ctx, game.OpPlaceBet, map[string]any{
		"userId": "sim-user",
		"betId":  "putt-7-p1",
		"amount": 50,
	}, coordinator.Options{Priority: coordinator.PriorityHigh, SkipCache: true})
	if err != nil {
		return fmt.Errorf("place bet: %w", err)
	}
	fmt.Printf("  placed: %s\n", placed)

	fmt.Println("-- quoting twice; second answer comes from the cache")
	for i := 0; i < 2; i++ {
		quote, err := coord.Send(ctx, game.OpGetQuote, map[string]any{"betId": "putt-7-p1"}, coordinator.Options{})
		if err != nil {
			return fmt.Errorf("quote: %w", err)
		}
		fmt.Printf("  quote: %s\n", quote)
	}

	fmt.Println("-- resolving the putt")
	settled, err := coord.Send(ctx, game.OpResolveBet, map[string]any{
		"group":   "putt-7-p1",
		"winners": []string{"putt-7-p1"},
	}, coordinator.Options{SkipCache: true})
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}
	fmt.Printf("  settlements: %s\n", settled)

	balance, err := coord.Send(ctx, game.OpGetBalance, map[string]any{"userId": "sim-user"}, coordinator.Options{SkipCache: true})
	if err != nil {
		return fmt.Errorf("balance: %w", err)
	}
	fmt.Printf("  balance: %s\n", balance)
	return nil
}

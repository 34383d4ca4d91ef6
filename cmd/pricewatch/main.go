// Command pricewatch connects to the simulator WebSocket in binary mode and
// prints every state, event, reset and maximization message in
// human-readable form.
//
// Usage:
//
//	pricewatch                              # connect to localhost:8200
//	pricewatch -url ws://host:8200/feed     # custom endpoint
//	pricewatch -json                        # request JSON format instead (pass-through print)
//	pricewatch -check                       # ask for a maximization check after connecting
//	pricewatch -stats 10                    # print message rate stats every N seconds
//	pricewatch -hex                         # also dump raw hex alongside decoded output
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ndrandal/price-simulator/internal/format"
	"github.com/ndrandal/price-simulator/internal/wire"
)

func main() {
	url := flag.String("url", "ws://localhost:8200/feed", "WebSocket endpoint")
	useJSON := flag.Bool("json", false, "Request JSON format instead of binary")
	check := flag.Bool("check", false, "Request a profit-maximization check after connecting")
	statsInterval := flag.Int("stats", 0, "Print message rate stats every N seconds (0 = off)")
	showHex := flag.Bool("hex", false, "Print raw hex dump alongside decoded output")
	lang := flag.String("lang", "en-US", "Language tag for number formatting")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)
	printer := format.ForLanguage(*lang)

	// Connect
	log.Printf("connecting to %s", *url)
	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	log.Println("connected")

	// Set format
	mode := "binary"
	if *useJSON {
		mode = "json"
	}
	sendControl(conn, map[string]any{"action": "format", "format": mode})
	log.Printf("watching in %s mode", mode)

	if *check {
		sendControl(conn, map[string]any{"action": "check"})
	}

	// Stats counter
	var msgCount uint64
	if *statsInterval > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(*statsInterval) * time.Second)
			defer ticker.Stop()
			var last uint64
			for range ticker.C {
				cur := atomic.LoadUint64(&msgCount)
				rate := float64(cur-last) / float64(*statsInterval)
				log.Printf("[stats] %d msgs total | %.1f msgs/sec", cur, rate)
				last = cur
			}
		}()
	}

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		log.Println("shutting down...")
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		time.Sleep(200 * time.Millisecond)
		os.Exit(0)
	}()

	// Read loop
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("read: %v", err)
		}

		atomic.AddUint64(&msgCount, 1)

		if msgType == websocket.TextMessage {
			// JSON pass-through (the state sent on connect precedes the format switch)
			fmt.Println(string(data))
			continue
		}

		if *showHex {
			printHex(data)
		}
		m, err := wire.DecodeBinary(data)
		if err != nil {
			fmt.Printf("???      %v (%d bytes)\n", err, len(data))
			continue
		}
		fmt.Println(describe(printer, &m))
	}
}

func sendControl(conn *websocket.Conn, msg map[string]any) {
	data, _ := json.Marshal(msg)
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Fatalf("send control: %v", err)
	}
}

// describe renders one decoded message as a single line.
func describe(p *format.Formatter, m *wire.Message) string {
	ts := fmtTimestamp(m.Timestamp)

	switch m.Kind {
	case wire.KindState, wire.KindEvent, wire.KindReset:
		event := "-"
		if m.EventID != 0 {
			event = fmt.Sprintf("#%d %s", m.EventID, m.EventName)
		}
		return fmt.Sprintf("%-8s %s  rev=%-5d  %s  maxDemand=%.1f  sensitivity=%.2f  event=%s",
			strings.ToUpper(m.Kind.String()), ts, m.Revision,
			p.Summary(m.Price, m.Demand, m.Profit), m.MaxDemand, m.DemandSensitivity, event)

	case wire.KindCheck:
		return fmt.Sprintf("CHECK    %s  rev=%-5d  price=%s  maximized=%t  best=%s for %s  %s",
			ts, m.Revision, p.Price(m.Price), m.IsMaximized,
			p.Price(m.MaxPrice), p.Money(m.MaxProfit), p.Verdict(m.IsMaximized, m.MaxPrice))

	case wire.KindError:
		return fmt.Sprintf("ERROR    %s  %s", ts, m.Error)
	}
	return fmt.Sprintf("UNKNOWN  kind=%c", byte(m.Kind))
}

func fmtTimestamp(nanos int64) string {
	d := time.Duration(nanos) * time.Nanosecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	us := (nanos / 1000) % 1000000
	return fmt.Sprintf("%02d:%02d:%02d.%06d", h, m, s, us)
}

// --- Hex dump ---

func printHex(data []byte) {
	var sb strings.Builder
	sb.WriteString("         hex: ")
	for i, b := range data {
		if i > 0 && i%16 == 0 {
			sb.WriteString("\n              ")
		}
		fmt.Fprintf(&sb, "%02x ", b)
	}
	fmt.Println(sb.String())
}

// Watch - subscribe to a gaze server's stream and print it.
// Useful for checking a tracker setup without a browser client.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/teslashibe/go-gaze/internal/config"
	"github.com/teslashibe/go-gaze/pkg/protocol"
)

func main() {
	host := flag.String("host", "localhost", "Gaze server host")
	port := flag.String("port", config.Port(), "Gaze server port")
	raw := flag.Bool("raw", false, "Print raw JSON instead of a summary line")
	flag.Parse()

	url := fmt.Sprintf("ws://%s:%s/eye_tracking", *host, *port)
	fmt.Printf("👁  Connecting to %s\n", url)

	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Printf("❌ Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer ws.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg protocol.GazeMessage
			if *raw {
				_, data, err := ws.ReadMessage()
				if err != nil {
					return
				}
				fmt.Println(string(data))
				continue
			}
			if err := ws.ReadJSON(&msg); err != nil {
				return
			}
			fmt.Println(summary(msg))
		}
	}()

	select {
	case <-sigChan:
	case <-done:
	}
}

// summary renders one message as a compact terminal line.
func summary(msg protocol.GazeMessage) string {
	gaze := "gaze=(-.---, -.---)"
	if msg.ScreenX != nil && msg.ScreenY != nil {
		gaze = fmt.Sprintf("gaze=(%.3f, %.3f)", *msg.ScreenX, *msg.ScreenY)
	}

	pupils := ""
	if msg.LeftEye.PupilSize != nil && msg.RightEye.PupilSize != nil {
		pupils = fmt.Sprintf(" pupils=%.1f/%.1fmm",
			*msg.LeftEye.PupilSize, *msg.RightEye.PupilSize)
	}

	return fmt.Sprintf("t=%d %s%s", msg.SystemTimestamp, gaze, pupils)
}

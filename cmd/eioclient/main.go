// Command eioclient opens an Engine.IO connection, prints what the server
// sends and closes the connection again.
//
//	eioclient -uri http://localhost:3000 -path socket.io -send hello -hold 5s
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/golang/glog"
	"github.com/njones/eioclient/engineio"
	"github.com/njones/eioclient/event"
)

var (
	configFile = flag.String("config", "", "YAML config file, flags override it")
	uri        = flag.String("uri", "http://localhost:3000", "server address")
	path       = flag.String("path", "", "server mount path (default engine.io)")
	protocol   = flag.Int("protocol", 0, "Engine.IO protocol version, 3 or 4")
	transport  = flag.String("transport", "", "websocket or gorilla")
	redirect   = flag.Bool("redirect", false, "resolve a 308 redirect before connecting")
	send       = flag.String("send", "", "message to send once open")
	hold       = flag.Duration("hold", 5*time.Second, "how long to stay open")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		glog.Errorf("eioclient: %v", err)
		glog.Flush()
		os.Exit(1)
	}
	glog.Flush()
}

func run() error {
	cfg := engineio.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = engineio.LoadConfig(*configFile); err != nil {
			return err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "path":
			cfg.Path = *path
		case "protocol":
			cfg.Protocol = *protocol
		case "transport":
			cfg.Transport = *transport
		case "redirect":
			cfg.ResolveRedirect = *redirect
		}
	})

	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	client := engineio.NewClient(opts...)
	defer client.Shutdown()

	client.OnMessage(func(msg engineio.Message) {
		if msg.IsBinary {
			fmt.Printf("message: % x\n", msg.Data)
			return
		}
		fmt.Printf("message: %s\n", msg)
	})
	client.OnError(func(err error) { glog.Warningf("eioclient: %v", err) })

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	timeout := cfg.OpenTimeout + *hold + cfg.CloseTimeout
	res, err := event.WaitAll(ctx, client, timeout, func(ctx context.Context) error {
		if err := client.Open(ctx, *uri, cfg.OpenTimeout); err != nil {
			return err
		}
		if *send != "" {
			if err := client.Send(ctx, *send); err != nil {
				return err
			}
		}

		select {
		case <-time.After(*hold):
		case <-ctx.Done():
		}
		return client.Close(context.Background())
	}, engineio.EventOpened, engineio.EventClosed)

	if o := res[engineio.EventOpened]; o != nil {
		info := o.Arg(0).(engineio.HandshakeInfo)
		fmt.Printf("opened: sid=%s ping=%s/%s upgrades=%v\n", info.SessionID, info.PingInterval, info.PingTimeout, info.Upgrades)
	}
	if o := res[engineio.EventClosed]; o != nil {
		ev := o.Arg(0).(engineio.CloseEvent)
		fmt.Printf("closed: %s\n", ev.Reason)
		if ev.Err != nil {
			fmt.Printf("error: %v\n", ev.Err)
		}
	}
	for _, name := range res.Missing() {
		fmt.Printf("missing: %s\n", name)
	}

	return err
}

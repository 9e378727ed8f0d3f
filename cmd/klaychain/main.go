package main

import (
	"fmt"
	"net"
	"net/http"
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/ikuhiroo/pyblockchain/api"
	"github.com/ikuhiroo/pyblockchain/chain"
	"github.com/ikuhiroo/pyblockchain/internal/log"
	"github.com/ikuhiroo/pyblockchain/node"
	"github.com/ikuhiroo/pyblockchain/peers"
)

var logger = log.NewModuleLogger(log.ModuleCmd)

var (
	app = cli.NewApp()

	portFlag = cli.IntFlag{
		Name:  "port",
		Value: 5000,
		Usage: "port to bind the wire API and peer-probe listener to",
	}
	addressFlag = cli.StringFlag{
		Name:  "address",
		Value: "",
		Usage: "mining reward address; the node's host:port is used as a placeholder when empty",
	}
)

func init() {
	app.Name = "klaychain"
	app.Usage = "a small proof-of-work blockchain node"
	app.Flags = []cli.Flag{portFlag, addressFlag}
	app.Action = runNode
	app.Commands = []cli.Command{
		{
			Name:  "dump",
			Usage: "print the genesis-only chain a fresh node would start with",
			Action: func(ctx *cli.Context) error {
				fmt.Print(chain.Chain{chain.NewGenesisBlock()}.String())
				return nil
			},
		},
	}
}

func runNode(ctx *cli.Context) error {
	port := ctx.Int(portFlag.Name)
	self := ctx.String(addressFlag.Name)
	host := localHost()

	if self == "" {
		self = fmt.Sprintf("%s:%d", host, port)
		logger.Warn("no --address given; using host:port as the mining address placeholder", "address", self)
	}

	n := node.New(node.Config{
		SelfAddress: self,
		Host:        host,
		Port:        port,
		PeerRange: peers.Range{
			StartPort:   5000,
			EndPort:     5003,
			StartOffset: 0,
			EndOffset:   1,
		},
		Solvency: chain.SolvencyIgnored,
	})
	n.Run()

	addr := fmt.Sprintf("0.0.0.0:%d", port)
	logger.Info("wire API listening", "address", addr)
	return http.ListenAndServe(addr, api.NewServer(n))
}

// localHost mirrors the original source's get_host(): it looks up the
// machine's own hostname-resolved address and falls back to loopback so
// peer discovery has a dotted-quad IPv4 to probe around.
func localHost() string {
	hostname, err := os.Hostname()
	if err != nil {
		logger.Debug("failed to resolve hostname", "error", err)
		return "127.0.0.1"
	}
	addrs, err := net.LookupHost(hostname)
	if err != nil || len(addrs) == 0 {
		logger.Debug("failed to resolve local host address", "error", err)
		return "127.0.0.1"
	}
	for _, addr := range addrs {
		if ip := net.ParseIP(addr); ip != nil && ip.To4() != nil {
			return addr
		}
	}
	return "127.0.0.1"
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Command resolve finds the authoritative voter-weight record of an owner
// under a vote-aggregator root and optionally records the outcome.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"solana-governance-kit/internal/address"
	"solana-governance-kit/internal/config"
	"solana-governance-kit/internal/domain"
	"solana-governance-kit/internal/observability"
	"solana-governance-kit/internal/schema"
	"solana-governance-kit/internal/solana"
	"solana-governance-kit/internal/storage"
	chstore "solana-governance-kit/internal/storage/clickhouse"
	"solana-governance-kit/internal/storage/memory"
	"solana-governance-kit/internal/storage/migrations"
	"solana-governance-kit/internal/voterweight"
)

// Candidate is one record the plugin holds for the owner.
type Candidate struct {
	Address     string `json:"address"`
	VoterWeight uint64 `json:"voter_weight"`
	Expiry      *int64 `json:"expiry"`
	Scoped      bool   `json:"scoped"`
}

// Output is the printed result.
type Output struct {
	Root       string      `json:"root"`
	Owner      string      `json:"owner"`
	Plugin     string      `json:"plugin"`
	Selected   Candidate   `json:"selected"`
	Candidates []Candidate `json:"candidates"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, nil); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "resolve: %v\n", err)
		if voterweight.IsNotFound(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// run resolves and prints. A nil rpc is built from the configuration.
func run(ctx context.Context, args []string, stdout io.Writer, rpc solana.RPCClient) error {
	fs := pflag.NewFlagSet("resolve", pflag.ContinueOnError)
	rootFlag := fs.String("root", "", "Aggregator root address")
	realmFlag := fs.String("realm", "", "Realm address, with --mint, instead of --root")
	mintFlag := fs.String("mint", "", "Governing token mint, with --realm")
	ownerFlag := fs.String("owner", "", "Governing token owner (required)")
	persist := fs.Bool("persist", false, "Record the resolution in storage")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}
	if *ownerFlag == "" {
		return errors.New("--owner is required")
	}
	owner, err := address.ParsePublicKey(*ownerFlag)
	if err != nil {
		return fmt.Errorf("owner: %w", err)
	}
	if *persist && !cfg.Storage.UseMemory && cfg.Storage.ClickhouseDSN == "" {
		return errors.New("--persist needs --clickhouse-dsn or --use-memory")
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return err
	}
	defer logger.Sync()
	voterweight.SetLogger(logger.Named("voterweight"))

	if rpc == nil {
		rpc = solana.NewHTTPClient(cfg.RPC.Endpoint,
			solana.WithTimeout(cfg.RPC.Timeout),
			solana.WithMaxRetries(cfg.RPC.MaxRetries))
	}
	program, err := cfg.AggregatorProgram()
	if err != nil {
		return err
	}
	finder := voterweight.NewFinder(rpc, schema.Catalog(), voterweight.WithAggregatorProgram(program))

	var res *voterweight.Resolution
	switch {
	case *rootFlag != "":
		root, err := address.ParsePublicKey(*rootFlag)
		if err != nil {
			return fmt.Errorf("root: %w", err)
		}
		res, err = finder.Find(ctx, root, owner)
		if err != nil {
			return err
		}
	case *realmFlag != "" && *mintFlag != "":
		realm, err := address.ParsePublicKey(*realmFlag)
		if err != nil {
			return fmt.Errorf("realm: %w", err)
		}
		mint, err := address.ParsePublicKey(*mintFlag)
		if err != nil {
			return fmt.Errorf("mint: %w", err)
		}
		res, err = finder.FindByRealm(ctx, realm, mint, owner)
		if err != nil {
			return err
		}
	default:
		return errors.New("--root or both --realm and --mint are required")
	}

	if *persist {
		if err := record(ctx, cfg, res, logger); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(toOutput(res))
}

func toOutput(res *voterweight.Resolution) Output {
	out := Output{
		Root:     res.RootAddress.String(),
		Owner:    res.Owner.String(),
		Plugin:   res.Plugin().String(),
		Selected: toCandidate(res.Selected),
	}
	for _, c := range res.Candidates {
		out.Candidates = append(out.Candidates, toCandidate(c))
	}
	return out
}

func toCandidate(c voterweight.Candidate) Candidate {
	return Candidate{
		Address:     c.Address.String(),
		VoterWeight: c.Record.VoterWeight,
		Expiry:      c.Record.VoterWeightExpiry,
		Scoped:      c.Record.WeightAction != nil || c.Record.WeightActionTarget != nil,
	}
}

// toRecord converts res into its stored form.
func toRecord(res *voterweight.Resolution, at time.Time) *domain.VoterWeightResolution {
	return &domain.VoterWeightResolution{
		Root:         res.RootAddress.String(),
		Owner:        res.Owner.String(),
		Plugin:       res.Plugin().String(),
		Selected:     res.Selected.Address.String(),
		VoterWeight:  res.Selected.Record.VoterWeight,
		Expiry:       res.Selected.Record.VoterWeightExpiry,
		Candidates:   uint32(len(res.Candidates)),
		ResolvedAtMs: at.UnixMilli(),
	}
}

func record(ctx context.Context, cfg config.Config, res *voterweight.Resolution, logger *zap.Logger) error {
	var store storage.ResolutionStore
	if cfg.Storage.UseMemory {
		store = memory.NewResolutionStore()
	} else {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			return err
		}
		defer conn.Close()
		store = chstore.NewResolutionStore(conn)
	}

	if err := store.Insert(ctx, toRecord(res, time.Now())); err != nil {
		return fmt.Errorf("record resolution: %w", err)
	}
	logger.Info("resolution recorded", zap.Stringer("owner", res.Owner), zap.Stringer("record", res.Selected.Address))
	return nil
}

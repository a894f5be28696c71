// Command inspect identifies and decodes a governance or vote-aggregator
// account, or an instruction's data, and prints it as JSON.
package main

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"solana-governance-kit/internal/address"
	"solana-governance-kit/internal/codec"
	"solana-governance-kit/internal/config"
	"solana-governance-kit/internal/observability"
	"solana-governance-kit/internal/schema"
	"solana-governance-kit/internal/solana"
	"solana-governance-kit/internal/voterweight"
)

// Output is the printed result.
type Output struct {
	Address     string       `json:"address,omitempty"`
	Owner       string       `json:"owner,omitempty"`
	Family      codec.Family `json:"family"`
	Record      string       `json:"record,omitempty"`
	Instruction string       `json:"instruction,omitempty"`
	Size        int          `json:"size"`
	Value       any          `json:"value"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	account     string
	dataB64     string
	dataHex     string
	file        string
	family      string
	record      string
	instruction bool
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	var opts options
	fs := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
	fs.StringVar(&opts.account, "account", "", "Account address to fetch over RPC")
	fs.StringVar(&opts.dataB64, "base64", "", "Raw data, base64")
	fs.StringVar(&opts.dataHex, "hex", "", "Raw data, hex")
	fs.StringVar(&opts.file, "file", "", "File holding raw data")
	fs.StringVar(&opts.family, "family", "", "Program family: spl-governance or vote-aggregator (default: by owner, else both)")
	fs.StringVarP(&opts.record, "record", "r", "", "Record or instruction name, skipping identification")
	fs.BoolVar(&opts.instruction, "instruction", false, "Decode instruction data instead of an account")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	if err != nil {
		return err
	}
	defer logger.Sync()

	out, data, err := load(ctx, cfg, opts, logger)
	if err != nil {
		return err
	}

	families, err := candidateFamilies(opts.family, cfg, out.Owner)
	if err != nil {
		return err
	}

	if opts.instruction {
		err = decodeInstruction(schema.Catalog(), families, opts.record, data, out)
	} else {
		err = decodeAccount(schema.Catalog(), families, opts.record, data, out)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func load(ctx context.Context, cfg config.Config, opts options, logger *zap.Logger) (*Output, []byte, error) {
	out := &Output{}
	switch {
	case opts.account != "":
		key, err := address.ParsePublicKey(opts.account)
		if err != nil {
			return nil, nil, err
		}
		rpc := solana.NewHTTPClient(cfg.RPC.Endpoint,
			solana.WithTimeout(cfg.RPC.Timeout),
			solana.WithMaxRetries(cfg.RPC.MaxRetries))
		acc, err := rpc.GetAccountInfo(ctx, key)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch %s: %w", key, err)
		}
		if acc == nil {
			return nil, nil, fmt.Errorf("account %s does not exist", key)
		}
		logger.Debug("fetched account", zap.Stringer("address", key), zap.Int("size", len(acc.Data)), zap.Uint64("slot", acc.Slot))
		out.Address = key.String()
		out.Owner = acc.Owner.String()
		return out, acc.Data, nil
	case opts.dataB64 != "":
		data, err := base64.StdEncoding.DecodeString(opts.dataB64)
		return out, data, err
	case opts.dataHex != "":
		data, err := hex.DecodeString(opts.dataHex)
		return out, data, err
	case opts.file != "":
		data, err := os.ReadFile(opts.file)
		return out, data, err
	}
	return nil, nil, errors.New("one of --account, --base64, --hex or --file is required")
}

// candidateFamilies picks the families to try, most specific first.
func candidateFamilies(flag string, cfg config.Config, owner string) ([]codec.Family, error) {
	switch codec.Family(flag) {
	case codec.FamilyGovernance, codec.FamilyAggregator:
		return []codec.Family{codec.Family(flag)}, nil
	case "":
	default:
		return nil, fmt.Errorf("unknown family %q", flag)
	}
	switch owner {
	case cfg.Programs.Governance:
		return []codec.Family{codec.FamilyGovernance}, nil
	case cfg.Programs.Aggregator:
		return []codec.Family{codec.FamilyAggregator}, nil
	}
	// Eight-byte discriminators are far less likely to match by accident.
	return []codec.Family{codec.FamilyAggregator, codec.FamilyGovernance}, nil
}

func decodeAccount(c *codec.Catalog, families []codec.Family, record string, data []byte, out *Output) error {
	out.Size = len(data)
	if record == "" {
		var errs []error
		for _, family := range families {
			name, err := c.Identify(family, voterweight.Retag(data))
			if err == nil {
				record = name
				break
			}
			errs = append(errs, err)
		}
		if record == "" {
			return errors.Join(errs...)
		}
	}

	entry, err := c.Account(record)
	if err != nil {
		return err
	}
	v, err := c.Decode(record, voterweight.Retag(data))
	if err != nil {
		return err
	}
	out.Family = entry.Family()
	out.Record = record
	out.Value = v
	return nil
}

func decodeInstruction(c *codec.Catalog, families []codec.Family, name string, data []byte, out *Output) error {
	out.Size = len(data)
	if name == "" {
		for _, family := range families {
			if n, ok := schema.IdentifyInstruction(c, family, data); ok {
				name = n
				break
			}
		}
		if name == "" {
			return fmt.Errorf("%w: no instruction matches data", codec.ErrUnknownDiscriminator)
		}
	}

	entry, err := c.Instruction(name)
	if err != nil {
		return err
	}
	v, err := c.DecodeInstruction(name, data)
	if err != nil {
		return err
	}
	out.Family = entry.Family()
	out.Instruction = name
	out.Value = v
	return nil
}

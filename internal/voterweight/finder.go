package voterweight

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"solana-governance-kit/internal/address"
	"solana-governance-kit/internal/aggregator"
	"solana-governance-kit/internal/codec"
	"solana-governance-kit/internal/observability"
	"solana-governance-kit/internal/solana"
)

// Voter-weight record offsets scanned by the finder, discriminator included.
const (
	realmOffset = 8
	mintOffset  = 40
	ownerOffset = 72
)

// Resolution is the outcome of a Find.
type Resolution struct {
	RootAddress address.PublicKey
	Root        aggregator.Root
	Owner       address.PublicKey
	Selected    Candidate
	// Candidates is every decoded record the plugin holds for the owner.
	Candidates []Candidate
}

// Plugin is the program the records were read from.
func (r *Resolution) Plugin() address.PublicKey {
	return r.Root.VotingWeightPlugin
}

// Finder fetches an owner's voter-weight records from a root's plugin and
// selects the authoritative one.
type Finder struct {
	rpc     solana.RPCClient
	catalog *codec.Catalog
	program address.PublicKey
}

// FinderOption configures a Finder.
type FinderOption func(*Finder)

// WithAggregatorProgram overrides the program roots are derived under.
func WithAggregatorProgram(program address.PublicKey) FinderOption {
	return func(f *Finder) {
		f.program = program
	}
}

// NewFinder creates a Finder. catalog must contain the aggregator records.
func NewFinder(rpc solana.RPCClient, catalog *codec.Catalog, opts ...FinderOption) *Finder {
	f := &Finder{
		rpc:     rpc,
		catalog: catalog,
		program: aggregator.DefaultProgramID,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FindByRealm derives the root of (realm, mint) and calls Find.
func (f *Finder) FindByRealm(ctx context.Context, realm, mint, owner address.PublicKey) (*Resolution, error) {
	root, _, err := aggregator.RootAddress(f.program, realm, mint)
	if err != nil {
		return nil, fmt.Errorf("derive root: %w", err)
	}
	return f.Find(ctx, root, owner)
}

// Find loads the root account, scans its voting weight plugin for the
// owner's records under both discriminators and selects one.
func (f *Finder) Find(ctx context.Context, rootAddress, owner address.PublicKey) (*Resolution, error) {
	log := Logger().With(zap.Stringer("root", rootAddress), zap.Stringer("owner", owner))

	root, err := f.loadRoot(ctx, rootAddress)
	if err != nil {
		observability.RecordResolution("error", 0)
		return nil, err
	}

	candidates, err := f.candidates(ctx, root, owner)
	if err != nil {
		observability.RecordResolution("error", 0)
		return nil, err
	}

	selected, err := Select(candidates, owner, root.VotingWeightPlugin)
	if err != nil {
		observability.RecordResolution("not_found", len(candidates))
		log.Info("no voter weight record", zap.Int("candidates", len(candidates)))
		return nil, err
	}
	observability.RecordResolution("selected", len(candidates))

	log.Debug("voter weight record selected",
		zap.Stringer("record", selected.Address),
		zap.Uint64("weight", selected.Record.VoterWeight),
		zap.Int("candidates", len(candidates)))

	return &Resolution{
		RootAddress: rootAddress,
		Root:        root,
		Owner:       owner,
		Selected:    selected,
		Candidates:  candidates,
	}, nil
}

func (f *Finder) loadRoot(ctx context.Context, rootAddress address.PublicKey) (aggregator.Root, error) {
	acc, err := f.rpc.GetAccountInfo(ctx, rootAddress)
	if err != nil {
		return aggregator.Root{}, fmt.Errorf("fetch root %s: %w", rootAddress, err)
	}
	if acc == nil {
		return aggregator.Root{}, fmt.Errorf("%w: %s", ErrRootNotFound, rootAddress)
	}

	root, err := codec.DecodeAccount[aggregator.Root](f.catalog, aggregator.RootName, acc.Data)
	observability.RecordCodecOp("decode", aggregator.RootName, err)
	if err != nil {
		return aggregator.Root{}, fmt.Errorf("root %s: %w", rootAddress, err)
	}
	return root, nil
}

// candidates collects Anchor records first, then legacy ones re-tagged.
func (f *Finder) candidates(ctx context.Context, root aggregator.Root, owner address.PublicKey) ([]Candidate, error) {
	var out []Candidate
	for _, disc := range []codec.Discriminator{
		aggregator.VoterWeightRecordDiscriminator,
		aggregator.LegacyVoterWeightRecordDiscriminator,
	} {
		accounts, err := f.rpc.GetProgramAccounts(ctx, root.VotingWeightPlugin,
			solana.Memcmp(0, disc),
			solana.Memcmp(realmOffset, root.Realm[:]),
			solana.Memcmp(mintOffset, root.GoverningTokenMint[:]),
			solana.Memcmp(ownerOffset, owner[:]),
		)
		if err != nil {
			return nil, fmt.Errorf("scan plugin %s: %w", root.VotingWeightPlugin, err)
		}

		for _, acc := range accounts {
			rec, err := codec.DecodeAccount[aggregator.VoterWeightRecord](
				f.catalog, aggregator.VoterWeightRecordName, Retag(acc.Account.Data))
			observability.RecordCodecOp("decode", aggregator.VoterWeightRecordName, err)
			if err != nil {
				return nil, fmt.Errorf("voter weight record %s: %w", acc.Address, err)
			}
			out = append(out, Candidate{Address: acc.Address, Record: rec})
		}
	}
	return out, nil
}

// IsNotFound reports whether err means the owner has no usable record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoWeightRecord)
}

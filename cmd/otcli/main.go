// Command otcli is a thin CLI binding over the ot package's algebra: it
// decodes the JSON wire codec, runs one core operation, and prints the
// JSON-encoded result.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/texerecol/ot"
	"github.com/texerecol/ot/internal/otlog"
)

type buildCmd struct {
	Ops    string `help:"JSON-encoded flat op list, e.g. [5,\"hello\",-3,10]." required:""`
	Pretty bool   `help:"Print the sequence's String() form, which is the same JSON as the default output."`
}

func (c *buildCmd) Run(ctx *runContext) error {
	seq, err := decodeSeq(c.Ops)
	if err != nil {
		ctx.log.Error("decode ops failed", zap.Error(err))
		return errors.Wrap(err, "decode ops")
	}
	ctx.log.Info("build", zap.Int("base_len", seq.BaseLen()), zap.Int("target_len", seq.TargetLen()))
	return ctx.emit(seq, c.Pretty)
}

type applyCmd struct {
	Ops    string `help:"JSON-encoded op list to apply." required:""`
	Source string `help:"Source buffer." required:""`
	Pretty bool   `help:"Print a human-readable summary instead of JSON."`
}

func (c *applyCmd) Run(ctx *runContext) error {
	seq, err := decodeSeq(c.Ops)
	if err != nil {
		ctx.log.Error("decode ops failed", zap.Error(err))
		return errors.Wrap(err, "decode ops")
	}

	result, err := seq.ApplyString(c.Source)
	if err != nil {
		ctx.log.Error("apply failed", zap.Error(err), zap.Int("source_len", len(ot.EncodeString(c.Source))))
		return errors.Wrap(err, "apply")
	}
	ctx.log.Info("applied", zap.Int("source_len", seq.BaseLen()), zap.Int("result_len", seq.TargetLen()))

	if c.Pretty {
		fmt.Println(result)
		return nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "encode result")
	}
	fmt.Println(string(data))
	return nil
}

type composeCmd struct {
	A      string `help:"JSON-encoded first op list." required:""`
	B      string `help:"JSON-encoded second op list." required:""`
	Pretty bool   `help:"Print the sequence's String() form, which is the same JSON as the default output."`
}

func (c *composeCmd) Run(ctx *runContext) error {
	a, err := decodeSeq(c.A)
	if err != nil {
		ctx.log.Error("decode a failed", zap.Error(err))
		return errors.Wrap(err, "decode a")
	}
	b, err := decodeSeq(c.B)
	if err != nil {
		ctx.log.Error("decode b failed", zap.Error(err))
		return errors.Wrap(err, "decode b")
	}

	composed, err := a.Compose(b)
	if err != nil {
		ctx.log.Error("compose failed", zap.Error(err))
		return errors.Wrap(err, "compose")
	}
	ctx.log.Info("composed", zap.Int("base_len", composed.BaseLen()), zap.Int("target_len", composed.TargetLen()))
	return ctx.emit(composed, c.Pretty)
}

type transformCmd struct {
	A      string `help:"JSON-encoded first op list." required:""`
	B      string `help:"JSON-encoded second op list." required:""`
	Pretty bool   `help:"Print a human-readable summary instead of JSON."`
}

func (c *transformCmd) Run(ctx *runContext) error {
	a, err := decodeSeq(c.A)
	if err != nil {
		ctx.log.Error("decode a failed", zap.Error(err))
		return errors.Wrap(err, "decode a")
	}
	b, err := decodeSeq(c.B)
	if err != nil {
		ctx.log.Error("decode b failed", zap.Error(err))
		return errors.Wrap(err, "decode b")
	}

	aPrime, bPrime, err := a.Transform(b)
	if err != nil {
		ctx.log.Error("transform failed", zap.Error(err))
		return errors.Wrap(err, "transform")
	}
	ctx.log.Info("transformed", zap.Int("a_prime_target_len", aPrime.TargetLen()), zap.Int("b_prime_target_len", bPrime.TargetLen()))

	if c.Pretty {
		fmt.Printf("a' = %s\nb' = %s\n", aPrime, bPrime)
		return nil
	}

	pair := struct {
		APrime *ot.OperationSeq `json:"aPrime"`
		BPrime *ot.OperationSeq `json:"bPrime"`
	}{aPrime, bPrime}
	data, err := json.Marshal(pair)
	if err != nil {
		return errors.Wrap(err, "encode result")
	}
	fmt.Println(string(data))
	return nil
}

type invertCmd struct {
	Ops    string `help:"JSON-encoded op list to invert." required:""`
	Source string `help:"Source buffer the ops apply against." required:""`
	Pretty bool   `help:"Print the sequence's String() form, which is the same JSON as the default output."`
}

func (c *invertCmd) Run(ctx *runContext) error {
	seq, err := decodeSeq(c.Ops)
	if err != nil {
		ctx.log.Error("decode ops failed", zap.Error(err))
		return errors.Wrap(err, "decode ops")
	}
	inverted := seq.InvertString(c.Source)
	ctx.log.Info("inverted", zap.Int("base_len", inverted.BaseLen()), zap.Int("target_len", inverted.TargetLen()))
	return ctx.emit(inverted, c.Pretty)
}

type transformIndexCmd struct {
	Ops      string `help:"JSON-encoded op list." required:""`
	Position int    `help:"Cursor position, in UTF-16 code units, before ops." required:""`
}

func (c *transformIndexCmd) Run(ctx *runContext) error {
	seq, err := decodeSeq(c.Ops)
	if err != nil {
		ctx.log.Error("decode ops failed", zap.Error(err))
		return errors.Wrap(err, "decode ops")
	}
	rebased := ot.TransformIndex(seq, c.Position)
	ctx.log.Info("transform-index", zap.Int("position", c.Position), zap.Int("rebased", rebased))
	fmt.Println(rebased)
	return nil
}

type cli struct {
	Build          buildCmd          `cmd:"" help:"Normalize a flat op list into canonical form."`
	Apply          applyCmd          `cmd:"" help:"Apply an op list to a source buffer."`
	Compose        composeCmd        `cmd:"" help:"Compose two consecutive op lists."`
	Transform      transformCmd      `cmd:"" help:"Transform two concurrent op lists against each other."`
	Invert         invertCmd         `cmd:"" help:"Invert an op list against its source buffer."`
	TransformIndex transformIndexCmd `cmd:"" name:"transform-index" help:"Rebase a cursor position through an op list."`
}

// runContext carries the per-invocation logger, tagged with a correlation
// ID, through to each subcommand.
type runContext struct {
	log *zap.Logger
}

func (ctx *runContext) emit(seq *ot.OperationSeq, pretty bool) error {
	if pretty {
		fmt.Println(seq.String())
		return nil
	}
	data, err := json.Marshal(seq)
	if err != nil {
		return errors.Wrap(err, "encode result")
	}
	fmt.Println(string(data))
	return nil
}

func decodeSeq(raw string) (*ot.OperationSeq, error) {
	var seq ot.OperationSeq
	if err := json.Unmarshal([]byte(raw), &seq); err != nil {
		return nil, err
	}
	return &seq, nil
}

func main() {
	otlog.Init()
	defer otlog.Sync()

	invocationID := uuid.New().String()
	log := otlog.WithFields(zap.String("invocation_id", invocationID))

	var c cli
	kctx := kong.Parse(&c, kong.Name("otcli"),
		kong.Description("Operational transformation algebra, from the command line."))

	ctx := &runContext{log: log}
	err := kctx.Run(ctx)
	if err != nil {
		log.Error("otcli command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

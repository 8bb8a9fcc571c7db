// Package provider builds the model configured for grammard.
package provider

import (
	"context"
	"fmt"

	configs "github.com/opst/grammarfab/pkg/configs/server"
	"github.com/opst/grammarfab/pkg/correction"
	"github.com/opst/grammarfab/pkg/inference"
	"github.com/opst/grammarfab/pkg/inference/gemini"
	"github.com/opst/grammarfab/pkg/inference/hf"
)

// FromConfig builds an Inferencer.
//
// It returns nil (without error) when provider is "none".
// The Inferencer gives up each inference after the configured timeout.
func FromConfig(ctx context.Context, conf *configs.ModelConfig) (correction.Inferencer, error) {
	if conf == nil {
		return nil, nil
	}

	var model correction.Inferencer
	switch conf.Provider() {
	case configs.ProviderNone, "":
		return nil, nil
	case configs.ProviderHF:
		h := conf.HF()
		model = hf.New(
			h.Endpoint(),
			hf.WithToken(h.Token()),
			hf.WithParameters(hf.Parameters{
				MaxNewTokens:      h.MaxNewTokens(),
				Temperature:       h.Temperature(),
				TopP:              h.TopP(),
				RepetitionPenalty: h.RepetitionPenalty(),
				DoSample:          h.DoSample(),
			}),
		)
	case configs.ProviderGemini:
		g := conf.Gemini()
		client, err := gemini.New(
			ctx, g.APIKey(),
			gemini.WithModel(g.Model()),
			gemini.WithTemperature(g.Temperature()),
		)
		if err != nil {
			return nil, err
		}
		model = client
	default:
		return nil, fmt.Errorf("unknown model provider: %s", conf.Provider())
	}

	return inference.WithTimeout(model, conf.Timeout()), nil
}

// NewPipeline builds a correction pipeline with the configured rules and model.
//
// Without rule file, the built-in rules are used.
func NewPipeline(ctx context.Context, conf *configs.CorrectionConfig) (*correction.Pipeline, error) {
	var table *correction.Table
	if path := conf.Rules(); path != "" {
		t, err := correction.LoadTable(path)
		if err != nil {
			return nil, err
		}
		table = t
	}

	model, err := FromConfig(ctx, conf.Model())
	if err != nil {
		return nil, err
	}
	return correction.New(table, correction.WithInferencer(model)), nil
}

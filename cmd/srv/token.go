package main

import (
	"fmt"

	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/pkg/authenticator"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

// generateToken issues an access token for an identity, for operators and
// local testing.
func (s *srv) generateToken(cctx *cli.Context) error {
	identity := cctx.Args().First()
	if identity == "" {
		return fmt.Errorf("missing identity")
	}

	cfg := xcontext.Configs(s.ctx).Auth
	engine := authenticator.NewTokenEngine[model.AccessToken](cfg.TokenSecret, cfg.AccessToken.Expiration)
	token, err := engine.Generate(identity, model.AccessToken{ID: identity})
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}

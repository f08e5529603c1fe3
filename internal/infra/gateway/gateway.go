// Package gateway hosts the settlement providers behind the payment
// commands. Each provider fabricates the method-specific reference data
// (pix QR code, boleto barcode, card authorization) and reports an outcome;
// asynchronous methods come back pending and settle later via the outcome
// webhook.
package gateway

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/gabrielmaialva33/moto-rental-platform/internal/domain/payment"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/pkg/errs"
	"github.com/gabrielmaialva33/moto-rental-platform/internal/usecase/commands"
)

type Resolver struct {
	gateways map[payment.Method]commands.SettlementGateway
}

func NewResolver(gateways ...commands.SettlementGateway) commands.GatewayResolver {
	byMethod := make(map[payment.Method]commands.SettlementGateway, len(gateways))
	for _, g := range gateways {
		byMethod[g.Method()] = g
	}
	return &Resolver{gateways: byMethod}
}

func (r *Resolver) ForMethod(m payment.Method) (commands.SettlementGateway, error) {
	g, ok := r.gateways[m]
	if !ok {
		return nil, errs.New("no gateway registered for method " + m.String())
	}
	return g, nil
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return strings.Repeat("0", n*2)
	}
	return strings.ToUpper(hex.EncodeToString(buf))
}

func randomDigits(n int) string {
	const digits = "0123456789"
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return strings.Repeat("0", n)
	}
	for i := range buf {
		buf[i] = digits[int(buf[i])%len(digits)]
	}
	return string(buf)
}

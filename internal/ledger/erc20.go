package ledger

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

const erc20ABI = `[
{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

// Backend is the subset of *ethclient.Client used by ERC20.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	ChainID(ctx context.Context) (*big.Int, error)
}

// ERC20 is a Ledger backed by an ERC-20 token contract.
type ERC20 struct {
	backend  Backend
	token    common.Address
	decimals int
	abi      abi.ABI
}

var _ Ledger = (*ERC20)(nil)

// DialERC20 connects to the JSON-RPC endpoint at rpcURL.
func DialERC20(ctx context.Context, rpcURL, token string, decimals int) (*ERC20, func(), error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}
	l, err := NewERC20(client, token, decimals)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return l, client.Close, nil
}

// NewERC20 returns a ledger for the token contract at token.
func NewERC20(backend Backend, token string, decimals int) (*ERC20, error) {
	if !common.IsHexAddress(token) {
		return nil, fmt.Errorf("invalid token address %q", token)
	}
	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi: %w", err)
	}
	return &ERC20{
		backend:  backend,
		token:    common.HexToAddress(token),
		decimals: decimals,
		abi:      parsed,
	}, nil
}

func (l *ERC20) Decimals() int { return l.decimals }

func (l *ERC20) Balance(ctx context.Context, address string) (Amount, error) {
	if !common.IsHexAddress(address) {
		return Amount{}, fmt.Errorf("invalid address %q", address)
	}
	data, err := l.abi.Pack("balanceOf", common.HexToAddress(address))
	if err != nil {
		return Amount{}, err
	}

	out, err := l.backend.CallContract(ctx, ethereum.CallMsg{To: &l.token, Data: data}, nil)
	if err != nil {
		return Amount{}, fmt.Errorf("balanceOf call failed: %w", err)
	}
	values, err := l.abi.Unpack("balanceOf", out)
	if err != nil {
		return Amount{}, fmt.Errorf("failed to decode balance: %w", err)
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return Amount{}, fmt.Errorf("unexpected balance type %T", values[0])
	}
	return NewAmount(balance, l.decimals), nil
}

func (l *ERC20) Transfer(ctx context.Context, privateKey []byte, to string, amount Amount) (Receipt, error) {
	if !common.IsHexAddress(to) {
		return Receipt{}, ErrInvalidRecipient
	}
	if amount.IsZero() || amount.Decimals() != l.decimals {
		return Receipt{}, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}

	priv, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return Receipt{}, fmt.Errorf("invalid private key: %w", err)
	}
	from := crypto.PubkeyToAddress(priv.PublicKey)
	recipient := common.HexToAddress(to)

	balance, err := l.Balance(ctx, from.Hex())
	if err != nil {
		return Receipt{}, err
	}
	if balance.Cmp(amount) < 0 {
		return Receipt{}, fmt.Errorf("%w: have %s, need %s", ErrInsufficientFunds, balance, amount)
	}

	data, err := l.abi.Pack("transfer", recipient, amount.Base())
	if err != nil {
		return Receipt{}, err
	}

	nonce, err := l.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to get nonce: %w", err)
	}
	gasPrice, err := l.backend.SuggestGasPrice(ctx)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to get gas price: %w", err)
	}
	gas, err := l.backend.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &l.token, Data: data})
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to estimate gas: %w", err)
	}
	chainID, err := l.backend.ChainID(ctx)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to get chain id: %w", err)
	}

	tx := types.NewTransaction(nonce, l.token, new(big.Int), gas, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), priv)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to sign transaction: %w", err)
	}
	if err := l.backend.SendTransaction(ctx, signed); err != nil {
		return Receipt{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	return Receipt{
		TxHash: signed.Hash().Hex(),
		From:   from.Hex(),
		To:     recipient.Hex(),
		Amount: amount,
	}, nil
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	"github.com/tessyjonburica/Droppio/internal/core/ports"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid signature")
)

type AuthService interface {
	GenerateToken(userID domain.UserID, walletAddress string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	// ResolveIdentity validates a token and loads the user it belongs to.
	ResolveIdentity(ctx context.Context, tokenString string) (*domain.User, error)
	// VerifySignature checks an EIP-191 personal-message signature against
	// the expected wallet address.
	VerifySignature(message, signature, expectedAddress string) (bool, error)
}

type Claims struct {
	UserID        domain.UserID `json:"user_id"`
	WalletAddress string        `json:"wallet_address"`
	jwt.RegisteredClaims
}

type authService struct {
	jwtSecret       []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	users           ports.UserRepository
}

func NewAuthService(
	jwtSecret string,
	accessTokenTTL time.Duration,
	refreshTokenTTL time.Duration,
	users ports.UserRepository,
) AuthService {
	return &authService{
		jwtSecret:       []byte(jwtSecret),
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		users:           users,
	}
}

func (s *authService) GenerateToken(userID domain.UserID, walletAddress string) (string, error) {
	claims := &Claims{
		UserID:        userID,
		WalletAddress: strings.ToLower(walletAddress),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

func (s *authService) ResolveIdentity(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	return s.users.FindByWallet(ctx, claims.WalletAddress)
}

func (s *authService) VerifySignature(message, signature, expectedAddress string) (bool, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return false, ErrInvalidSignature
	}
	if len(sig) != crypto.SignatureLength {
		return false, ErrInvalidSignature
	}

	// Wallets produce V as 27/28, go-ethereum expects 0/1.
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pubKey, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return false, ErrInvalidSignature
	}

	recovered := crypto.PubkeyToAddress(*pubKey)
	return strings.EqualFold(recovered.Hex(), expectedAddress), nil
}

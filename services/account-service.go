package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskoo-project/backend/logging"
	"taskoo-project/backend/models"
	"taskoo-project/backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AccountService struct {
	AccountsCollection  *mongo.Collection
	PositionsCollection *mongo.Collection
	Tokens              *utils.TokenIssuer
}

func NewAccountService(accounts, positions *mongo.Collection, tokens *utils.TokenIssuer) *AccountService {
	return &AccountService{
		AccountsCollection:  accounts,
		PositionsCollection: positions,
		Tokens:              tokens,
	}
}

// LoginResult is returned to the client after a successful login.
type LoginResult struct {
	Token   string             `json:"token"`
	Account models.AccountInfo `json:"accountInfo"`
}

// Login checks the credentials and issues a session token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var account models.Account
	err := s.AccountsCollection.FindOne(ctx, bson.M{"email": email}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Unknown email %s", email)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch account: %w", err)
	}
	if !utils.CheckPassword(account.Password, password) {
		logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Wrong password for %s", email)
		return nil, ErrInvalidCredentials
	}
	if account.Disabled {
		return nil, ErrAccountDisabled
	}

	token, err := s.Tokens.GenerateToken(account.ID.Hex(), account.Bucket.Hex(), account.Position, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	logging.Logger.Infof("Event ID: LOGIN_SUCCESS, Description: Account %s logged in", account.ID.Hex())
	return &LoginResult{Token: token, Account: account.Info()}, nil
}

// GetAccount returns the account without its password hash.
func (s *AccountService) GetAccount(ctx context.Context, accountID primitive.ObjectID) (*models.Account, error) {
	var account models.Account
	opts := options.FindOne().SetProjection(bson.M{"password": 0})
	if err := s.AccountsCollection.FindOne(ctx, bson.M{"_id": accountID}, opts).Decode(&account); err != nil {
		return nil, notFound(err, "account")
	}
	return &account, nil
}

// GetPermission reports whether the position grants permission. An unknown position grants nothing.
func (s *AccountService) GetPermission(ctx context.Context, positionID, permission string) (bool, error) {
	var position models.StaticEntry
	err := s.PositionsCollection.FindOne(ctx, bson.M{"_id": positionID}).Decode(&position)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to fetch position: %w", err)
	}
	return position.HasPermission(permission), nil
}

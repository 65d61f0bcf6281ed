package domain

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/cardlottery/internal/common"
	"github.com/questx-lab/cardlottery/internal/domain/draw"
	"github.com/questx-lab/cardlottery/internal/domain/ledger"
	"github.com/questx-lab/cardlottery/internal/domain/oracle"
	"github.com/questx-lab/cardlottery/internal/domain/randomness"
	"github.com/questx-lab/cardlottery/internal/domain/settlement"
	"github.com/questx-lab/cardlottery/internal/entity"
	"github.com/questx-lab/cardlottery/internal/model"
	"github.com/questx-lab/cardlottery/internal/repository"
	"github.com/questx-lab/cardlottery/pkg/enum"
	"github.com/questx-lab/cardlottery/pkg/errorx"
	"github.com/questx-lab/cardlottery/pkg/pubsub"
	"github.com/questx-lab/cardlottery/pkg/xcontext"
	"github.com/questx-lab/cardlottery/pkg/xredis"
	"gorm.io/gorm"
)

const (
	CardPriceUSD = 10
	UsdtDecimals = 6
	MinCards     = 1
	MaxCards     = 100

	microUSDPerUSD = 1_000_000

	defaultClaimWindow   = 24 * time.Hour
	defaultSlotTolerance = 10
	defaultClaimLockTTL  = 30 * time.Second

	revealCallback = "/revealLottery"
)

const (
	PayoutSOL   = "sol"
	PayoutToken = "token"
)

// RequestKey derives the id of the request made by owner at slot.
func RequestKey(owner string, slot uint64) string {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, slot)
	return hex.EncodeToString(crypto.Keccak256([]byte(owner), b))
}

type LotteryDomain interface {
	Create(context.Context, *model.CreateLotteryRequest) (*model.CreateLotteryResponse, error)
	Reveal(context.Context, *model.RevealLotteryRequest) (*model.RevealLotteryResponse, error)
	Claim(context.Context, *model.ClaimLotteryRequest) (*model.ClaimLotteryResponse, error)
	Refund(context.Context, *model.RefundLotteryRequest) (*model.RefundLotteryResponse, error)
	Get(context.Context, *model.GetLotteryRequest) (*model.GetLotteryResponse, error)
	GetMyList(context.Context, *model.GetMyLotteriesRequest) (*model.GetMyLotteriesResponse, error)
}

type lotteryDomain struct {
	globalConfigRepo   repository.GlobalConfigRepository
	lotteryRequestRepo repository.LotteryRequestRepository
	settlementRepo     repository.SettlementRepository

	ledger      ledger.Ledger
	oracle      oracle.PriceOracle
	provider    randomness.Provider
	dispatcher  settlement.Dispatcher
	redisClient xredis.Client
	publisher   pubsub.Publisher

	// recordLocks orders transitions of the same request inside this process. An
	// entry lives until its request is retired or found missing.
	recordLocks *xsync.MapOf[string, *sync.Mutex]
	now         func() time.Time
}

func NewLotteryDomain(
	globalConfigRepo repository.GlobalConfigRepository,
	lotteryRequestRepo repository.LotteryRequestRepository,
	settlementRepo repository.SettlementRepository,
	ledger ledger.Ledger,
	oracle oracle.PriceOracle,
	provider randomness.Provider,
	dispatcher settlement.Dispatcher,
	redisClient xredis.Client,
	publisher pubsub.Publisher,
) *lotteryDomain {
	return &lotteryDomain{
		globalConfigRepo:   globalConfigRepo,
		lotteryRequestRepo: lotteryRequestRepo,
		settlementRepo:     settlementRepo,
		ledger:             ledger,
		oracle:             oracle,
		provider:           provider,
		dispatcher:         dispatcher,
		redisClient:        redisClient,
		publisher:          publisher,
		recordLocks:        xsync.NewMapOf[*sync.Mutex](),
		now:                time.Now,
	}
}

func (d *lotteryDomain) lockRecord(id string) func() {
	mutex, _ := d.recordLocks.LoadOrStore(id, &sync.Mutex{})
	mutex.Lock()
	return mutex.Unlock
}

// forgetRecord drops the lock of a request which cannot transition anymore. It
// must be called while holding that lock.
func (d *lotteryDomain) forgetRecord(id string) {
	d.recordLocks.Delete(id)
}

// getLockedRequest reads a request whose lock is held by the caller.
func (d *lotteryDomain) getLockedRequest(ctx context.Context, id string) (*entity.LotteryRequest, error) {
	record, err := d.getRequest(ctx, id)
	if err != nil {
		if errorx.Is(err, errorx.NotFound) {
			d.forgetRecord(id)
		}

		return nil, err
	}

	return record, nil
}

func (d *lotteryDomain) getRequest(ctx context.Context, id string) (*entity.LotteryRequest, error) {
	req, err := d.lotteryRequestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found lottery request")
		}

		xcontext.Logger(ctx).Errorf("Cannot get lottery request: %v", err)
		return nil, errorx.Unknown
	}

	return req, nil
}

func (d *lotteryDomain) Create(
	ctx context.Context, req *model.CreateLotteryRequest,
) (*model.CreateLotteryResponse, error) {
	if req.CardCount < MinCards || req.CardCount > MaxCards {
		return nil, errorx.New(errorx.InvalidCardAmount,
			"Card count must be between %d and %d", MinCards, MaxCards)
	}

	currency, err := enum.ToEnum[entity.PaymentCurrency](req.Currency)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid currency: %v", err)
		return nil, errorx.New(errorx.InvalidChoice, "Invalid currency")
	}

	lotteryCfg := xcontext.Configs(ctx).Lottery
	tolerance := lotteryCfg.SlotTolerance
	if tolerance == 0 {
		tolerance = defaultSlotTolerance
	}

	current := d.ledger.CurrentSlot(ctx)
	var oldest uint64
	if current > tolerance {
		oldest = current - tolerance
	}

	if req.Slot < oldest || req.Slot > current {
		return nil, errorx.New(errorx.InvalidSlot, "Slot must be between %d and %d", oldest, current)
	}

	cfg, err := getGlobalConfig(ctx, d.globalConfigRepo, false)
	if err != nil {
		return nil, err
	}

	if cfg.Paused {
		return nil, errorx.New(errorx.ProgramPaused, "Lottery is paused")
	}

	if req.RandomnessQueue != cfg.OracleQueue {
		return nil, errorx.New(errorx.InvalidOracleQueue, "Randomness queue is not allowed")
	}

	owner := xcontext.RequestUserID(ctx)
	stakeMicroUSD := uint64(req.CardCount) * CardPriceUSD * microUSDPerUSD

	var source, destination string
	var amount uint64
	switch currency {
	case entity.CurrencySOL:
		amount, err = d.oracle.USDToNative(ctx, stakeMicroUSD)
		if err != nil {
			return nil, err
		}

		source, destination = owner, lotteryCfg.VaultAddress

	case entity.CurrencyUSDT:
		if err := d.checkUsdtAccounts(ctx, owner, req.UserTokenAccount, req.VaultTokenAccount); err != nil {
			return nil, err
		}

		// One micro-USD is one smallest unit of usdt.
		amount = stakeMicroUSD
		source, destination = req.UserTokenAccount, req.VaultTokenAccount
	}

	id := RequestKey(owner, req.Slot)
	if _, err := d.lotteryRequestRepo.GetByID(ctx, id); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "A request already exists at this slot")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get lottery request: %v", err)
		return nil, errorx.Unknown
	}

	clientSeed := req.ClientSeed
	if clientSeed == "" {
		clientSeed = id
	}

	record := &entity.LotteryRequest{
		Base:            entity.Base{ID: id},
		Owner:           owner,
		Slot:            req.Slot,
		CardCount:       uint8(req.CardCount),
		Status:          entity.LotteryPending,
		Currency:        currency,
		ClientSeed:      clientSeed,
		RandomnessQueue: req.RandomnessQueue,
		PaidAmount:      amount,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.ledger.Transfer(ctx, source, destination, amount); err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientBalance):
			return nil, errorx.New(errorx.BadRequest, "Insufficient balance to pay %d", amount)
		case errors.Is(err, ledger.ErrAccountNotFound):
			return nil, errorx.New(errorx.NotFound, "Not found payment account")
		case errors.Is(err, ledger.ErrMintMismatch):
			return nil, errorx.New(errorx.InvalidTokenAccount, "Payment accounts have different mints")
		}

		xcontext.Logger(ctx).Errorf("Cannot transfer stake: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.lotteryRequestRepo.Create(ctx, record); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create lottery request: %v", err)
		return nil, errorx.Unknown
	}

	err = d.provider.Request(ctx, model.RandomnessRequest{
		RequestID: id,
		Seed:      clientSeed,
		Queue:     req.RandomnessQueue,
		Callback:  revealCallback,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot request randomness: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Randomness provider is unavailable")
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	common.PromCounters[common.LotteryTransitionTotal].WithLabelValues("created").Inc()
	d.publish(ctx, model.LotteryEvent{
		Type:      model.LotteryCreatedEvent,
		RequestID: id,
		Owner:     owner,
		CardCount: record.CardCount,
		Currency:  string(currency),
		Amount:    amount,
	})

	return &model.CreateLotteryResponse{ID: id, Currency: string(currency), PaidAmount: amount}, nil
}

func (d *lotteryDomain) checkUsdtAccounts(ctx context.Context, owner, userAddress, vaultAddress string) error {
	if userAddress == "" || vaultAddress == "" {
		return errorx.New(errorx.MissingUsdtAccounts, "Token accounts are required to pay in usdt")
	}

	lotteryCfg := xcontext.Configs(ctx).Lottery
	accounts := make([]*entity.LedgerAccount, 0, 2)
	for _, address := range []string{userAddress, vaultAddress} {
		account, err := d.ledger.Account(ctx, address)
		if err != nil {
			if errors.Is(err, ledger.ErrAccountNotFound) {
				return errorx.New(errorx.MissingUsdtAccounts, "Not found token account %s", address)
			}

			xcontext.Logger(ctx).Errorf("Cannot get token account: %v", err)
			return errorx.Unknown
		}

		accounts = append(accounts, account)
	}

	user, vault := accounts[0], accounts[1]
	if user.Mint != lotteryCfg.UsdtMint || vault.Mint != lotteryCfg.UsdtMint {
		return errorx.New(errorx.InvalidUsdtMint, "Token accounts must hold usdt")
	}

	if user.Owner != owner {
		return errorx.New(errorx.InvalidTokenAccount, "Source token account is not owned by caller")
	}

	if vault.Owner != lotteryCfg.VaultAddress || vault.Address == user.Address {
		return errorx.New(errorx.InvalidTokenAccount, "Invalid vault token account")
	}

	return nil
}

// Reveal is called with the provider entropy. Revealing twice returns the first
// result.
func (d *lotteryDomain) Reveal(
	ctx context.Context, req *model.RevealLotteryRequest,
) (*model.RevealLotteryResponse, error) {
	entropy, err := randomness.ParseEntropy(req.Randomness)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Randomness must be 32 hex encoded bytes")
	}

	providerAddress := xcontext.Configs(ctx).Randomness.ProviderAddress
	if err := randomness.Verify(providerAddress, req.RequestID, entropy, req.Signature); err != nil {
		xcontext.Logger(ctx).Warnf("Rejected fulfillment of %s: %v", req.RequestID, err)
		return nil, errorx.New(errorx.InvalidVrfCallback, "Invalid randomness signature")
	}

	defer d.lockRecord(req.RequestID)()

	record, err := d.getLockedRequest(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}

	if record.Status == entity.LotteryRevealed {
		xcontext.Logger(ctx).Infof("Request %s is already revealed", record.ID)
		return revealResponse(record), nil
	}

	if record.Status != entity.LotteryPending {
		return nil, errorx.New(errorx.InvalidRequestStatus, "Request is %s", record.Status)
	}

	cfg, err := getGlobalConfig(ctx, d.globalConfigRepo, false)
	if err != nil {
		return nil, err
	}

	totalReward, err := draw.TotalReward(entropy, uint32(record.CardCount))
	if err != nil {
		return nil, errorx.New(errorx.MathOverflow, "Total reward overflows")
	}

	poolIndex := draw.SelectPool(entropy, cfg.ActivePools())
	revealedAt := d.now()

	err = d.lotteryRequestRepo.Reveal(ctx, record.ID, repository.RevealLotteryRequestData{
		TotalReward: totalReward,
		PoolIndex:   poolIndex,
		RevealedAt:  revealedAt,
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot reveal lottery request: %v", err)
			return nil, errorx.Unknown
		}

		// Another replica changed the request first.
		current, err := d.getRequest(ctx, record.ID)
		if err != nil {
			return nil, err
		}

		if current.Status != entity.LotteryRevealed {
			return nil, errorx.New(errorx.InvalidRequestStatus, "Request is %s", current.Status)
		}

		return revealResponse(current), nil
	}

	record.Status = entity.LotteryRevealed
	record.TotalReward = totalReward
	record.PoolIndex = poolIndex
	record.RevealedAt = sql.NullTime{Time: revealedAt, Valid: true}

	common.PromCounters[common.LotteryTransitionTotal].WithLabelValues("revealed").Inc()
	common.PromHistograms[common.LotteryRewardMicroUSD].WithLabelValues().Observe(float64(totalReward))
	d.publish(ctx, model.LotteryEvent{
		Type:      model.LotteryRevealedEvent,
		RequestID: record.ID,
		Owner:     record.Owner,
		CardCount: record.CardCount,
		Reward:    totalReward,
		PoolIndex: poolIndex,
	})

	return revealResponse(record), nil
}

func revealResponse(record *entity.LotteryRequest) *model.RevealLotteryResponse {
	return &model.RevealLotteryResponse{
		Status:      string(record.Status),
		TotalReward: formatMicroUSD(record.TotalReward),
		PoolIndex:   record.PoolIndex,
	}
}

func claimRoute(req *model.ClaimLotteryRequest) (entity.SettlementRoute, error) {
	switch req.PayoutMode {
	case PayoutSOL:
		return entity.RouteDirect, nil
	case PayoutToken:
		route, err := enum.ToEnum[entity.SettlementRoute](req.SwapRouter)
		if err != nil || route == entity.RouteDirect {
			return "", errorx.New(errorx.InvalidChoice, "Invalid swap router")
		}

		return route, nil
	}

	return "", errorx.New(errorx.InvalidChoice, "Invalid payout mode")
}

// Claim pays the revealed reward and retires the request. A failed payout leaves
// the request revealed.
func (d *lotteryDomain) Claim(
	ctx context.Context, req *model.ClaimLotteryRequest,
) (*model.ClaimLotteryResponse, error) {
	route, err := claimRoute(req)
	if err != nil {
		return nil, err
	}

	var swapData []byte
	if req.SwapData != "" {
		swapData, err = base64.StdEncoding.DecodeString(req.SwapData)
		if err != nil {
			return nil, errorx.New(errorx.InvalidSwapData, "Swap data must be base64 encoded")
		}
	}

	owner := xcontext.RequestUserID(ctx)

	lockTTL := xcontext.Configs(ctx).Lottery.ClaimLockTTL
	if lockTTL <= 0 {
		lockTTL = defaultClaimLockTTL
	}

	lockKey := common.RedisKeyClaimLock(req.RequestID)
	lockToken := uuid.NewString()
	locked, err := d.redisClient.SetNX(ctx, lockKey, lockToken, lockTTL)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot acquire claim lock: %v", err)
		return nil, errorx.Unknown
	}

	if !locked {
		return nil, errorx.New(errorx.TooManyRequests, "The request is being claimed")
	}

	defer func() {
		released, err := d.redisClient.Release(ctx, lockKey, lockToken)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot release claim lock: %v", err)
		} else if !released {
			xcontext.Logger(ctx).Warnf("Claim lock of %s expired before the claim finished", req.RequestID)
		}
	}()

	defer d.lockRecord(req.RequestID)()

	record, err := d.getLockedRequest(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}

	if record.Owner != owner {
		return nil, errorx.New(errorx.Unauthorized, "Only the owner can claim")
	}

	if record.Status != entity.LotteryRevealed || !record.RevealedAt.Valid {
		return nil, errorx.New(errorx.InvalidRequestStatus, "Request is %s", record.Status)
	}

	claimWindow := xcontext.Configs(ctx).Lottery.ClaimWindow
	if claimWindow <= 0 {
		claimWindow = defaultClaimWindow
	}

	if d.now().Sub(record.RevealedAt.Time) >= claimWindow {
		return nil, errorx.New(errorx.ClaimExpired, "Claim window has passed")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.lotteryRequestRepo.UpdateStatus(ctx, record.ID, entity.LotteryRevealed, entity.LotteryClaimed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InvalidRequestStatus, "Request is not revealed anymore")
		}

		xcontext.Logger(ctx).Errorf("Cannot mark request as claimed: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.dispatcher.Settle(ctx, settlement.Order{
		Owner:          owner,
		RewardMicroUSD: record.TotalReward,
		Route:          route,
		ExpectedOutput: req.ExpectedTokenOutput,
		SwapData:       swapData,
		Accounts:       req.SwapAccounts,
	})
	if err != nil {
		xcontext.Logger(ctx).Infof("Settlement of %s via %s failed: %v", record.ID, route, err)
		return nil, err
	}

	err = d.settlementRepo.Create(ctx, &entity.Settlement{
		Base:      entity.Base{ID: uuid.NewString()},
		RequestID: record.ID,
		Owner:     owner,
		Route:     result.Route,
		PoolIndex: record.PoolIndex,
		RewardUSD: record.TotalReward,
		AmountIn:  result.AmountIn,
		AmountOut: result.AmountOut,
		MinOut:    result.MinOut,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create settlement: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.lotteryRequestRepo.DeleteWithStatus(ctx, record.ID, entity.LotteryClaimed); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete claimed request: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	d.forgetRecord(record.ID)
	common.PromCounters[common.LotteryTransitionTotal].WithLabelValues("claimed").Inc()
	d.publish(ctx, model.LotteryEvent{
		Type:      model.LotteryClaimedEvent,
		RequestID: record.ID,
		Owner:     owner,
		CardCount: record.CardCount,
		Currency:  string(record.Currency),
		Amount:    result.AmountOut,
		Reward:    record.TotalReward,
		PoolIndex: record.PoolIndex,
		Route:     string(result.Route),
	})

	return &model.ClaimLotteryResponse{
		Route:     string(result.Route),
		Reward:    formatMicroUSD(record.TotalReward),
		AmountIn:  result.AmountIn,
		AmountOut: result.AmountOut,
	}, nil
}

// Refund returns the stake of a request whose randomness never arrived.
func (d *lotteryDomain) Refund(
	ctx context.Context, req *model.RefundLotteryRequest,
) (*model.RefundLotteryResponse, error) {
	owner := xcontext.RequestUserID(ctx)

	defer d.lockRecord(req.RequestID)()

	record, err := d.getLockedRequest(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}

	if record.Owner != owner {
		return nil, errorx.New(errorx.Unauthorized, "Only the owner can refund")
	}

	if record.Status != entity.LotteryPending {
		return nil, errorx.New(errorx.InvalidRequestStatus, "Request is %s", record.Status)
	}

	cfg, err := getGlobalConfig(ctx, d.globalConfigRepo, false)
	if err != nil {
		return nil, err
	}

	if d.now().Sub(record.CreatedAt) <= cfg.RequestTimeout() {
		return nil, errorx.New(errorx.RefundNotAllowed, "Request has not timed out yet")
	}

	lotteryCfg := xcontext.Configs(ctx).Lottery
	source, destination := lotteryCfg.VaultAddress, owner
	if record.Currency == entity.CurrencyUSDT {
		if err := d.checkRefundAccount(ctx, owner, req.UserTokenAccount); err != nil {
			return nil, err
		}

		source, destination = lotteryCfg.VaultTokenAddress, req.UserTokenAccount
	}

	vault, err := d.ledger.Account(ctx, source)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get vault account: %v", err)
		return nil, errorx.Unknown
	}

	if vault.Balance < record.PaidAmount {
		return nil, errorx.New(errorx.InsufficientVaultBalance, "Vault cannot cover the refund")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.lotteryRequestRepo.DeleteWithStatus(ctx, record.ID, entity.LotteryPending); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InvalidRequestStatus, "Request is not pending anymore")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete refunded request: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.ledger.Transfer(ctx, source, destination, record.PaidAmount); err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			return nil, errorx.New(errorx.InsufficientVaultBalance, "Vault cannot cover the refund")
		}

		xcontext.Logger(ctx).Errorf("Cannot transfer refund: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	d.forgetRecord(record.ID)
	common.PromCounters[common.LotteryTransitionTotal].WithLabelValues("refunded").Inc()
	d.publish(ctx, model.LotteryEvent{
		Type:      model.LotteryRefundedEvent,
		RequestID: record.ID,
		Owner:     owner,
		CardCount: record.CardCount,
		Currency:  string(record.Currency),
		Amount:    record.PaidAmount,
	})

	return &model.RefundLotteryResponse{
		Currency: string(record.Currency),
		Amount:   record.PaidAmount,
	}, nil
}

func (d *lotteryDomain) checkRefundAccount(ctx context.Context, owner, address string) error {
	if address == "" {
		return errorx.New(errorx.RefundNotAllowed, "Token account is required to refund usdt")
	}

	account, err := d.ledger.Account(ctx, address)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return errorx.New(errorx.RefundNotAllowed, "Not found token account")
		}

		xcontext.Logger(ctx).Errorf("Cannot get token account: %v", err)
		return errorx.Unknown
	}

	if account.Owner != owner {
		return errorx.New(errorx.Unauthorized, "Token account is not owned by caller")
	}

	if account.Mint != xcontext.Configs(ctx).Lottery.UsdtMint {
		return errorx.New(errorx.InvalidTokenAccount, "Token account must hold usdt")
	}

	return nil
}

func (d *lotteryDomain) Get(
	ctx context.Context, req *model.GetLotteryRequest,
) (*model.GetLotteryResponse, error) {
	record, err := d.getRequest(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	return &model.GetLotteryResponse{Request: convertLotteryRequest(record)}, nil
}

func (d *lotteryDomain) GetMyList(
	ctx context.Context, req *model.GetMyLotteriesRequest,
) (*model.GetMyLotteriesResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", apiCfg.MaxLimit)
	}

	records, err := d.lotteryRequestRepo.GetListByOwner(
		ctx, xcontext.RequestUserID(ctx), req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get lottery requests: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.LotteryRequest{}
	for i := range records {
		result = append(result, convertLotteryRequest(&records[i]))
	}

	return &model.GetMyLotteriesResponse{Requests: result}, nil
}

func (d *lotteryDomain) publish(ctx context.Context, event model.LotteryEvent) {
	event.ID = nextEventID(ctx)
	event.CreatedAt = d.now()
	publishEvent(ctx, d.publisher, common.LotteryEventTopic, event.RequestID, event)
}

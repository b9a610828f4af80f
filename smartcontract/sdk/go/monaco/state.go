package monaco

import (
	"fmt"
	"io"
	"strings"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/monaco-dca/monaco/smartcontract/sdk/go/idl"
)

var (
	DiscriminatorDepositState = idl.AccountDiscriminator(AccountNameDepositState)
	DiscriminatorDidSwap      = idl.EventDiscriminator(EventNameDidSwap)
)

type DcaSchedule uint8

const (
	DcaScheduleDaily DcaSchedule = iota
	DcaScheduleWeekly
	DcaScheduleBiweekly
	DcaScheduleMonthly
	DcaScheduleQuarterly
)

func (s DcaSchedule) String() string {
	switch s {
	case DcaScheduleDaily:
		return "daily"
	case DcaScheduleWeekly:
		return "weekly"
	case DcaScheduleBiweekly:
		return "biweekly"
	case DcaScheduleMonthly:
		return "monthly"
	case DcaScheduleQuarterly:
		return "quarterly"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

func (s DcaSchedule) Valid() bool {
	return s <= DcaScheduleQuarterly
}

// Period is the time between two DCA executions. Months are 30 days and
// quarters 90 days.
func (s DcaSchedule) Period() time.Duration {
	const day = 24 * time.Hour
	switch s {
	case DcaScheduleDaily:
		return day
	case DcaScheduleWeekly:
		return 7 * day
	case DcaScheduleBiweekly:
		return 14 * day
	case DcaScheduleMonthly:
		return 30 * day
	case DcaScheduleQuarterly:
		return 90 * day
	default:
		return 0
	}
}

func ParseDcaSchedule(s string) (DcaSchedule, error) {
	switch strings.ToLower(s) {
	case "daily":
		return DcaScheduleDaily, nil
	case "weekly":
		return DcaScheduleWeekly, nil
	case "biweekly":
		return DcaScheduleBiweekly, nil
	case "monthly":
		return DcaScheduleMonthly, nil
	case "quarterly":
		return DcaScheduleQuarterly, nil
	default:
		return 0, fmt.Errorf("invalid dca schedule %q", s)
	}
}

type Side uint8

const (
	SideBid Side = iota
	SideAsk
)

func (s Side) String() string {
	switch s {
	case SideBid:
		return "bid"
	case SideAsk:
		return "ask"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

func (s Side) Valid() bool {
	return s <= SideAsk
}

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "bid", "buy":
		return SideBid, nil
	case "ask", "sell":
		return SideAsk, nil
	default:
		return 0, fmt.Errorf("invalid side %q", s)
	}
}

type DepositState struct {
	UserAuthority        solana.PublicKey  // 32 bytes
	CollateralAccountKey solana.PublicKey  // 32 bytes
	LiquidityAmount      uint64            // 8 bytes LE
	CollateralAmount     uint64            // 8 bytes LE
	Schedule             DcaSchedule       // 1 byte
	ReserveAccount       solana.PublicKey  // 32 bytes
	DcaMint              solana.PublicKey  // 32 bytes
	DcaRecipient         solana.PublicKey  // 32 bytes
	Ooa                  *solana.PublicKey // 1 byte tag + 32 bytes when set
	CreatedAt            int64             // 8 bytes LE, unix seconds
	Counter              uint16            // 2 bytes LE
	Nonce                uint8             // 1 byte
}

// Serialize writes the account data, discriminator included.
func (d *DepositState) Serialize(w io.Writer) error {
	enc := bin.NewBorshEncoder(w)
	if err := enc.WriteBytes(DiscriminatorDepositState[:], false); err != nil {
		return err
	}
	if err := enc.Encode(d.UserAuthority); err != nil {
		return err
	}
	if err := enc.Encode(d.CollateralAccountKey); err != nil {
		return err
	}
	if err := enc.Encode(d.LiquidityAmount); err != nil {
		return err
	}
	if err := enc.Encode(d.CollateralAmount); err != nil {
		return err
	}
	if err := enc.Encode(uint8(d.Schedule)); err != nil {
		return err
	}
	if err := enc.Encode(d.ReserveAccount); err != nil {
		return err
	}
	if err := enc.Encode(d.DcaMint); err != nil {
		return err
	}
	if err := enc.Encode(d.DcaRecipient); err != nil {
		return err
	}
	if err := enc.WriteBool(d.Ooa != nil); err != nil {
		return err
	}
	if d.Ooa != nil {
		if err := enc.Encode(*d.Ooa); err != nil {
			return err
		}
	}
	if err := enc.Encode(d.CreatedAt); err != nil {
		return err
	}
	if err := enc.Encode(d.Counter); err != nil {
		return err
	}
	if err := enc.Encode(d.Nonce); err != nil {
		return err
	}
	return nil
}

// Deserialize reads the account data, discriminator included. Trailing
// bytes left over from the allocation are ignored.
func (d *DepositState) Deserialize(data []byte) error {
	if err := idl.ValidateDiscriminator(data, DiscriminatorDepositState); err != nil {
		return err
	}
	dec := bin.NewBorshDecoder(data[idl.DiscriminatorSize:])
	if err := dec.Decode(&d.UserAuthority); err != nil {
		return err
	}
	if err := dec.Decode(&d.CollateralAccountKey); err != nil {
		return err
	}
	if err := dec.Decode(&d.LiquidityAmount); err != nil {
		return err
	}
	if err := dec.Decode(&d.CollateralAmount); err != nil {
		return err
	}
	var schedule uint8
	if err := dec.Decode(&schedule); err != nil {
		return err
	}
	d.Schedule = DcaSchedule(schedule)
	if !d.Schedule.Valid() {
		return fmt.Errorf("invalid dca schedule variant %d", schedule)
	}
	if err := dec.Decode(&d.ReserveAccount); err != nil {
		return err
	}
	if err := dec.Decode(&d.DcaMint); err != nil {
		return err
	}
	if err := dec.Decode(&d.DcaRecipient); err != nil {
		return err
	}
	hasOoa, err := dec.ReadBool()
	if err != nil {
		return err
	}
	d.Ooa = nil
	if hasOoa {
		var ooa solana.PublicKey
		if err := dec.Decode(&ooa); err != nil {
			return err
		}
		d.Ooa = &ooa
	}
	if err := dec.Decode(&d.CreatedAt); err != nil {
		return err
	}
	if err := dec.Decode(&d.Counter); err != nil {
		return err
	}
	if err := dec.Decode(&d.Nonce); err != nil {
		return err
	}
	return nil
}

func (d *DepositState) CreatedAtTime() time.Time {
	return time.Unix(d.CreatedAt, 0).UTC()
}

// NextExecutionTime is when the next DCA run becomes due: one schedule
// period after the previous run, counting from the deposit time. The sum is
// taken in seconds since counter * period can exceed time.Duration's range.
func (d *DepositState) NextExecutionTime() time.Time {
	runs := int64(d.Counter) + 1
	periodSecs := int64(d.Schedule.Period() / time.Second)
	return time.Unix(d.CreatedAt+runs*periodSecs, 0).UTC()
}

func (d *DepositState) IsDue(now time.Time) bool {
	if d.Schedule.Period() == 0 {
		return false
	}
	return !now.Before(d.NextExecutionTime())
}

// DidSwap is emitted by the program after every DCA swap.
type DidSwap struct {
	GivenAmount           uint64
	MinExpectedSwapAmount uint64
	FromAmount            uint64
	ToAmount              uint64
	SpillAmount           uint64
	FromMint              solana.PublicKey
	ToMint                solana.PublicKey
	QuoteMint             solana.PublicKey
	Authority             solana.PublicKey
}

func (e *DidSwap) Serialize(w io.Writer) error {
	enc := bin.NewBorshEncoder(w)
	if err := enc.WriteBytes(DiscriminatorDidSwap[:], false); err != nil {
		return err
	}
	for _, v := range []uint64{e.GivenAmount, e.MinExpectedSwapAmount, e.FromAmount, e.ToAmount, e.SpillAmount} {
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	for _, pk := range []solana.PublicKey{e.FromMint, e.ToMint, e.QuoteMint, e.Authority} {
		if err := enc.Encode(pk); err != nil {
			return err
		}
	}
	return nil
}

func (e *DidSwap) Deserialize(data []byte) error {
	if err := idl.ValidateDiscriminator(data, DiscriminatorDidSwap); err != nil {
		return err
	}
	dec := bin.NewBorshDecoder(data[idl.DiscriminatorSize:])
	for _, v := range []*uint64{&e.GivenAmount, &e.MinExpectedSwapAmount, &e.FromAmount, &e.ToAmount, &e.SpillAmount} {
		if err := dec.Decode(v); err != nil {
			return err
		}
	}
	for _, pk := range []*solana.PublicKey{&e.FromMint, &e.ToMint, &e.QuoteMint, &e.Authority} {
		if err := dec.Decode(pk); err != nil {
			return err
		}
	}
	return nil
}

package config

type Configuration struct {
	// Server config
	Server struct {
		UseSSL    bool   `yaml:"ssl"`
		RedisPort int    `yaml:"redis_port"`
		RedisHost string `yaml:"redis_host"`
	} `yaml:"server"`
	// Bridge pair config
	Bridge struct {
		// role of this process when running split, "home", "remote" or "both"
		Role string `yaml:"role"`
		// well-known bridge contract addresses, identical on both sides
		HomeAddress   string `yaml:"home_address"`
		RemoteAddress string `yaml:"remote_address"`
		// counterpart JSON-RPC endpoints for split-process deployments,
		// empty means in-process loopback delivery
		CounterpartRPC []string `yaml:"counterpart_rpc"`
		// shared secret authenticating the counterpart relay; the /rpc
		// ingestion endpoint refuses all deliveries while it is unset
		ChannelSecret string `yaml:"channel_secret"`
		// audit loop interval in seconds
		AuditInterval int `yaml:"audit_interval"`
	} `yaml:"bridge"`
	// home-ledger assets registered at startup
	Assets []AssetConfig `yaml:"assets"`
}

type AssetConfig struct {
	Address        string `yaml:"address"`
	Name           string `yaml:"name"`
	Symbol         string `yaml:"symbol"`
	Decimals       uint8  `yaml:"decimals"`
	TransferFeeBps int64  `yaml:"transfer_fee_bps"`
}

var Config Configuration

// Fractional-precision ceiling for the Extended representation. Assets above
// it are rejected on the home side, before any message is sent.
const EXTENDED_DECIMALS_CAP = 18

// Execution allowances carried by cross-domain notifications. The deposit
// allowance must cover the worst case on the remote side: first-time deploy
// plus initialize plus mint.
const GAS_FINALIZE_DEPOSIT = uint64(1_200_000)
const GAS_FINALIZE_WITHDRAWAL = uint64(600_000)
const GAS_UPDATE_TOKEN_INFO = uint64(200_000)

// maximum number of counterpart RPC delivery retries across endpoints
const RPC_RETRIES = 3

var RedisStatusSets = map[string]string{
	"initiated": "bridgeops:initiated", // operation accepted locally, message sent
	"delivered": "bridgeops:delivered", // counterpart handler executed successfully
	"failed":    "bridgeops:failed",    // counterpart handler rejected the message, no retry
}

package models

type (
	Config struct {
		// Connection/Auth
		OpenAIApiKey string `toml:"OpenAIApiKey"`
		PinataJWT    string `toml:"PinataJWT"`

		// Service endpoints
		OpenAIBaseUrl string `toml:"OpenAIBaseUrl"`
		PinataBaseUrl string `toml:"PinataBaseUrl"`
		GatewayUrl    string `toml:"GatewayUrl"`

		// Image generation
		ImageModel string `toml:"ImageModel"` // Empty lets the API pick its default
		ImageSize  string `toml:"ImageSize"`

		// Chain
		RpcUrl             string `toml:"RpcUrl"`
		ChainID            int64  `toml:"ChainID"` // 0 disables the network check
		ContractAddress    string `toml:"ContractAddress"`
		PrivateKey         string `toml:"PrivateKey"`
		KeystorePath       string `toml:"KeystorePath"`
		KeystorePassphrase string `toml:"KeystorePassphrase"`
		MintTo             string `toml:"MintTo"` // Defaults to the signer address

		// Behaviour
		ApiClientTimeoutSec int    `toml:"ApiClientTimeoutSec"` // 0 means no client timeout
		PreviewDir          string `toml:"PreviewDir"`
		SkipConfirmation    bool   `toml:"SkipConfirmation"`

		// Other
		LogApiRequests bool   `toml:"LogApiRequests"`
		ApiLogPath     string `toml:"ApiLogPath"`
	}

	// Api Calls and Responses

	// ImageGenerationRequest is the body of POST /v1/images/generations.
	ImageGenerationRequest struct {
		Model          string `json:"model,omitempty"`
		Prompt         string `json:"prompt"`
		N              int    `json:"n"`
		Size           string `json:"size"`
		ResponseFormat string `json:"response_format"`
	}

	ImageGenerationResponse struct {
		Created int64       `json:"created"`
		Data    []ImageData `json:"data"`
		Error   *ApiError   `json:"error,omitempty"`
	}

	ImageData struct {
		URL           string `json:"url,omitempty"`
		B64JSON       string `json:"b64_json,omitempty"`
		RevisedPrompt string `json:"revised_prompt,omitempty"`
	}

	ApiError struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"` // String or null depending on the error
	}

	// PinResponse is the body returned by /pinning/pinFileToIPFS.
	PinResponse struct {
		IpfsHash    string `json:"IpfsHash"`
		PinSize     int64  `json:"PinSize"`
		Timestamp   string `json:"Timestamp"`
		IsDuplicate bool   `json:"isDuplicate,omitempty"`
	}

	// NFT

	// NftMetadata is the JSON document the token URI resolves to.
	NftMetadata struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Image       string `json:"image"`
	}
)

// Defaults applied when the config leaves a value empty
const (
	DefaultOpenAIBaseUrl = "https://api.openai.com"
	DefaultPinataBaseUrl = "https://api.pinata.cloud"
	DefaultGatewayUrl    = "https://gateway.pinata.cloud/ipfs"
	DefaultImageSize     = "256x256"
	DefaultApiLogPath    = "api.log"
)

package di

import (
	"steamledger/internal/providers"
	"steamledger/internal/storage"
	"steamledger/internal/storage/interfaces"
	"steamledger/internal/structures"
)

// provideLogger closes the log file when the injector is cleaned up.
func provideLogger(conf *structures.Config) (providers.Logger, func(), error) {
	logger, err := providers.NewLogProvider(conf)
	if err != nil {
		return nil, nil, err
	}
	return logger, logger.Close, nil
}

func provideCompressor() (interfaces.CompressorInterface, func(), error) {
	compressor, err := storage.NewZstdCompressor()
	if err != nil {
		return nil, nil, err
	}
	return compressor, compressor.Close, nil
}

package cmd

import (
	"firestige.xyz/udex/internal/config"
	"firestige.xyz/udex/internal/core/decoder"
	"firestige.xyz/udex/internal/hashmanager"
)

// Registrar is the part of the hash manager the commands need.
type Registrar interface {
	SetDataSourceInfo(name string, sourceID uint16, instance uint32, formatIdentifier string)
	RegisterDataSources(fileName, format string) error
	GetTopicsAndHashes() map[string]uint64
	GetNewRegisteredTopics() map[string]hashmanager.TopicInfo
	GetSchema(url string, sourceID uint16) (string, bool)
	DecodeTables() *decoder.Tables
	DataSource() hashmanager.DataSource
	Terminate()
}

var _ Registrar = (*hashmanager.CoreLib)(nil)

// newRegistrar builds an initialized CoreLib from the loaded configuration.
func newRegistrar() (Registrar, error) {
	loaded := cfg
	if loaded == nil {
		loaded = config.Default()
	}
	c, err := hashmanager.NewCoreLibFromConfig(loaded)
	if err != nil {
		return nil, err
	}
	c.Initialize()
	return c, nil
}

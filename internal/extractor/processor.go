package extractor

import (
	"fmt"
	"sync"

	"firestige.xyz/udex/internal/config"
)

// StaticProcessor is a DataProcessor declared in configuration.
type StaticProcessor struct {
	name    string
	formats []ProcessorFormat
	ports   []ProcessorPort
}

// NewStaticProcessor builds a processor from its configuration entry.
func NewStaticProcessor(cfg config.ProcessorConfig) *StaticProcessor {
	p := &StaticProcessor{name: cfg.Name}
	for _, f := range cfg.Formats {
		p.formats = append(p.formats, ProcessorFormat{
			SourceID:         f.SourceID,
			FormatIdentifier: f.FormatIdentifier,
			CycleID:          f.CycleID,
			VirtualAddress:   f.VirtualAddress,
		})
	}
	for _, port := range cfg.Ports {
		p.ports = append(p.ports, ProcessorPort{
			Name:                port.Name,
			InputCycleID:        port.InputCycleID,
			InputVirtualAddress: port.InputVirtualAddress,
		})
	}
	return p
}

func (p *StaticProcessor) Name() string {
	return p.name
}

func (p *StaticProcessor) SupportedFormats() []ProcessorFormat {
	return p.formats
}

func (p *StaticProcessor) SupportedPorts() []ProcessorPort {
	return p.ports
}

// ProcessorRegistry keeps the known data processors by name.
type ProcessorRegistry struct {
	mu         sync.RWMutex
	processors map[string]DataProcessor
	order      []string
}

func NewProcessorRegistry() *ProcessorRegistry {
	return &ProcessorRegistry{
		processors: make(map[string]DataProcessor),
	}
}

// NewProcessorRegistryFromConfig registers one StaticProcessor per entry.
func NewProcessorRegistryFromConfig(cfgs []config.ProcessorConfig) (*ProcessorRegistry, error) {
	r := NewProcessorRegistry()
	for _, cfg := range cfgs {
		if err := r.Register(NewStaticProcessor(cfg)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *ProcessorRegistry) Register(p DataProcessor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if name == "" {
		return fmt.Errorf("processor name must not be empty")
	}
	if _, exists := r.processors[name]; exists {
		return fmt.Errorf("processor '%s' already registered", name)
	}
	r.processors[name] = p
	r.order = append(r.order, name)
	return nil
}

func (r *ProcessorRegistry) Get(name string) (DataProcessor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.processors[name]
	if !exists {
		return nil, fmt.Errorf("processor '%s' not found", name)
	}
	return p, nil
}

// List returns the processors in registration order.
func (r *ProcessorRegistry) List() []DataProcessor {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]DataProcessor, 0, len(r.order))
	for _, name := range r.order {
		list = append(list, r.processors[name])
	}
	return list
}

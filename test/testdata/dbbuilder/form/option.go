package formbuilder

type Option func(*FactoryParams)

type FactoryParams struct {
	Name            string
	Description     string
	IsDefault       bool
	Active          bool
	ThankYouMessage string
}

func WithName(name string) Option {
	return func(p *FactoryParams) { p.Name = name }
}

func WithDescription(description string) Option {
	return func(p *FactoryParams) { p.Description = description }
}

func WithDefault() Option {
	return func(p *FactoryParams) { p.IsDefault = true }
}

func WithInactive() Option {
	return func(p *FactoryParams) { p.Active = false }
}

func WithThankYouMessage(message string) Option {
	return func(p *FactoryParams) { p.ThankYouMessage = message }
}

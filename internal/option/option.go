package option

// Option configures any value that implements OptionWith. Options type
// switch on the receiver and ignore values they don't know about.
type Option func(OptionWith)
type OptionWith interface{ With(...Option) }

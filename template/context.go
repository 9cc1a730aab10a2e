package template

// Context holds the named variables available to a ProgressTemplate during
// rendering, grounded on formatter.rs's TemplateContext.
type Context struct {
	vars map[string]Var
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{vars: map[string]Var{}}
}

// Set installs a variable and returns the Context for chaining, e.g.
// ctx.Set("completed", template.Number(5)).Set("total", template.Number(10)).
func (c *Context) Set(key string, value Var) *Context {
	c.vars[key] = value
	return c
}

// SetString is a convenience wrapper around Set(key, String(value)).
func (c *Context) SetString(key, value string) *Context { return c.Set(key, String(value)) }

// SetNumber is a convenience wrapper around Set(key, Number(value)).
func (c *Context) SetNumber(key string, value float64) *Context { return c.Set(key, Number(value)) }

// SetBool is a convenience wrapper around Set(key, Bool(value)).
func (c *Context) SetBool(key string, value bool) *Context { return c.Set(key, Bool(value)) }

// Get returns the named variable, if present.
func (c *Context) Get(key string) (Var, bool) {
	v, ok := c.vars[key]
	return v, ok
}

// Has reports whether the named variable is present.
func (c *Context) Has(key string) bool {
	_, ok := c.vars[key]
	return ok
}

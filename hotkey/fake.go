package hotkey

type Fake struct {
	toggled chan struct{}
}

func NewFake() *Fake {
	return &Fake{toggled: make(chan struct{}, 1)}
}

func (f *Fake) Register() error          { return nil }
func (f *Fake) Unregister()              {}
func (f *Fake) Toggled() <-chan struct{} { return f.toggled }

func (f *Fake) SimPress() { f.toggled <- struct{}{} }

package compiler

import (
	"io"

	"github.com/sapfsound/sapf/internal/lexer"
	"github.com/sapfsound/sapf/internal/object"
	"github.com/sapfsound/sapf/internal/serr"
	"github.com/sapfsound/sapf/internal/token"
)

// FuncProto is a compiled lambda body: its Chunk plus the upvalue
// capture descriptors the VM needs to build a closure over it. Stored
// as object.FunDef.Code (an `any` there, to avoid an object<->compiler
// import cycle).
type FuncProto struct {
	Chunk     *Chunk
	NumArgs   int
	Upvalues  []UpvalueDescriptor
}

// Compiler turns a token stream into a top-level Chunk, recursively
// compiling lambda ({ }) bodies into their own FuncProtos.
type Compiler struct {
	lx    *lexer.Lexer
	peek  *token.Token
	scope *FuncScope
}

// Compile lexes and compiles one source string (a REPL line, a loaded
// file) into a top-level Chunk.
func Compile(src string) (*Chunk, error) {
	c := &Compiler{lx: lexer.New(src), scope: NewTopScope()}
	chunk := &Chunk{}
	if err := c.compileUntil(chunk, token.EOF); err != nil {
		return nil, err
	}
	chunk.Write(byte(OpEnd), 0, 0)
	return chunk, nil
}

func (c *Compiler) next() token.Token {
	if c.peek != nil {
		t := *c.peek
		c.peek = nil
		return t
	}
	return c.lx.NextToken()
}

func (c *Compiler) peekTok() token.Token {
	if c.peek == nil {
		t := c.lx.NextToken()
		c.peek = &t
	}
	return *c.peek
}

// compileUntil compiles tokens into chunk until it sees stop (EOF,
// RBRACE, RBRACKET, or QUOTE_RB), consuming the stop token itself.
func (c *Compiler) compileUntil(chunk *Chunk, stop token.Kind) error {
	for {
		tok := c.next()
		if tok.Kind == stop || tok.Kind == token.EOF {
			return nil
		}
		if err := c.compileOne(chunk, tok); err != nil {
			return err
		}
	}
}

func (c *Compiler) compileOne(chunk *Chunk, tok token.Token) error {
	switch tok.Kind {
	case token.NEWLINE:
		return nil

	case token.FLOAT:
		idx := chunk.AddConstant(object.Float(tok.Literal.(float64)))
		chunk.Write(byte(OpConstant), tok.Line, tok.Column)
		chunk.WriteUint16(idx, tok.Line, tok.Column)
		return nil

	case token.STRING:
		idx := chunk.AddConstant(object.Of(object.NewString(tok.Literal.(string))))
		chunk.Write(byte(OpConstant), tok.Line, tok.Column)
		chunk.WriteUint16(idx, tok.Line, tok.Column)
		return nil

	case token.SYMBOL:
		idx := chunk.AddConstant(object.Of(object.NewSymbol(tok.Literal.(string))))
		chunk.Write(byte(OpConstant), tok.Line, tok.Column)
		chunk.WriteUint16(idx, tok.Line, tok.Column)
		return nil

	case token.SEMI:
		chunk.Write(byte(OpDiscard), tok.Line, tok.Column)
		return nil

	case token.DOT:
		name := tok.Literal.(string)
		idx := chunk.AddConstant(object.Of(object.NewSymbol(name)))
		chunk.Write(byte(OpDotCall), tok.Line, tok.Column)
		chunk.WriteUint16(idx, tok.Line, tok.Column)
		return nil

	case token.COMMA:
		name := tok.Literal.(string)
		idx := chunk.AddConstant(object.Of(object.NewSymbol(name)))
		chunk.Write(byte(OpCommaFetch), tok.Line, tok.Column)
		chunk.WriteUint16(idx, tok.Line, tok.Column)
		return nil

	case token.LBRACKET:
		chunk.Write(byte(OpMark), tok.Line, tok.Column)
		if err := c.compileUntil(chunk, token.RBRACKET); err != nil {
			return err
		}
		chunk.Write(byte(OpMakeArray), tok.Line, tok.Column)
		return nil

	case token.QUOTE_LB:
		chunk.Write(byte(OpMark), tok.Line, tok.Column)
		if err := c.compileUntil(chunk, token.QUOTE_RB); err != nil {
			return err
		}
		chunk.Write(byte(OpMakeForm), tok.Line, tok.Column)
		return nil

	case token.LBRACE:
		return c.compileLambda(chunk, tok)

	case token.IDENT:
		name := tok.Literal.(string)
		if idx, ok := c.scope.ResolveLocal(name); ok {
			chunk.Write(byte(OpPushLocal), tok.Line, tok.Column)
			chunk.Write(byte(idx), tok.Line, tok.Column)
			return nil
		}
		if idx, ok := c.scope.ResolveUpvalue(name); ok {
			chunk.Write(byte(OpPushUpvalue), tok.Line, tok.Column)
			chunk.Write(byte(idx), tok.Line, tok.Column)
			return nil
		}
		cidx := chunk.AddConstant(object.Of(object.NewSymbol(name)))
		chunk.Write(byte(OpPushWorkspace), tok.Line, tok.Column)
		chunk.WriteUint16(cidx, tok.Line, tok.Column)
		return nil

	default:
		return serr.Newf(serr.Syntax, tok.Lexeme, "unexpected token at line %d", tok.Line)
	}
}

// compileLambda compiles a { [|args|] body } literal into a nested
// FuncProto and emits an OpMakeClosure referencing it.
func (c *Compiler) compileLambda(chunk *Chunk, open token.Token) error {
	inner := NewInnerScope(c.scope)
	savedScope := c.scope
	c.scope = inner

	var argNames []string
	if c.peekTok().Kind == token.PIPE {
		c.next()
		for c.peekTok().Kind == token.IDENT {
			t := c.next()
			argNames = append(argNames, t.Literal.(string))
		}
		if c.peekTok().Kind == token.PIPE {
			c.next()
		}
	}
	for _, name := range argNames {
		inner.AddLocal(name)
	}

	bodyChunk := &Chunk{}
	if err := c.compileUntil(bodyChunk, token.RBRACE); err != nil {
		c.scope = savedScope
		return err
	}
	bodyChunk.Write(byte(OpReturn), open.Line, open.Column)

	proto := &FuncProto{Chunk: bodyChunk, NumArgs: len(argNames), Upvalues: toDescriptors(inner.Upvalues)}
	def := object.NewFunDef("<lambda>", len(argNames), 0)
	def.Code = proto

	c.scope = savedScope

	defIdx := chunk.AddConstant(object.Of(wrapFunDef(def)))
	chunk.Write(byte(OpMakeClosure), open.Line, open.Column)
	chunk.WriteUint16(defIdx, open.Line, open.Column)
	chunk.Write(byte(len(proto.Upvalues)), open.Line, open.Column)
	for _, uv := range proto.Upvalues {
		if uv.FromLocal {
			chunk.Write(1, open.Line, open.Column)
		} else {
			chunk.Write(0, open.Line, open.Column)
		}
		chunk.Write(uv.Index, open.Line, open.Column)
	}
	return nil
}

func toDescriptors(uvs []Upvalue) []UpvalueDescriptor {
	out := make([]UpvalueDescriptor, len(uvs))
	for i, u := range uvs {
		out[i] = UpvalueDescriptor{FromLocal: u.FromLocal, Index: byte(u.Index)}
	}
	return out
}

// funDefBox lets a *object.FunDef (which is not itself an object.Object)
// ride through the constants pool as a boxed value; the VM unwraps it
// when executing OpMakeClosure. FunDef is not a stack-visible Object in
// its own right — only Fun (the closure over it) is — so this box exists
// purely as constant-pool plumbing.
type funDefBox struct {
	object.RC
	Def *object.FunDef
}

func (b *funDefBox) TypeName() string                  { return "FunDefBox" }
func (b *funDefBox) Length() (int, bool)                { return 0, true }
func (b *funDefBox) At(i int) (object.V, error)         { return object.V{}, serr.New(serr.Internal, "FunDefBox", "not indexable") }
func (b *funDefBox) WrapAt(i int) (object.V, error)     { return b.At(i) }
func (b *funDefBox) ClipAt(i int) (object.V, error)     { return b.At(i) }
func (b *funDefBox) FoldAt(i int) (object.V, error)     { return b.At(i) }
func (b *funDefBox) Deref() object.V                    { return object.Of(b) }
func (b *funDefBox) Print(w io.Writer, depth, length int) {
	io.WriteString(w, "<FunDef>")
}

func wrapFunDef(def *object.FunDef) *funDefBox {
	return &funDefBox{RC: object.NewRC(), Def: def}
}

// UnboxFunDef recovers the *object.FunDef from a constant produced by
// wrapFunDef, for internal/vm's OpMakeClosure handler.
func UnboxFunDef(v object.V) (*object.FunDef, bool) {
	b, ok := v.Object().(*funDefBox)
	if !ok {
		return nil, false
	}
	return b.Def, true
}

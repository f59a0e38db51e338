package ast

// Rewrite replaces every node of the tree rooted at n, children first, with
// the result of fn and returns the new root. fn receives each node after its
// children have been rewritten.
func Rewrite(n Node, fn func(Node) Node) Node {
	if n == nil {
		return nil
	}

	each := func(nodes []Node) {
		for i := range nodes {
			nodes[i] = Rewrite(nodes[i], fn)
		}
	}

	switch n := n.(type) {
	case *Interp:
		each(n.Parts)
	case *Binary:
		n.Left = Rewrite(n.Left, fn)
		n.Right = Rewrite(n.Right, fn)
	case *Unary:
		n.Operand = Rewrite(n.Operand, fn)
	case *Postfix:
		n.Operand = Rewrite(n.Operand, fn)
	case *Assign:
		n.Target = Rewrite(n.Target, fn)
		n.Value = Rewrite(n.Value, fn)
	case *Label:
		n.Value = Rewrite(n.Value, fn)
	case *Lambda:
		for i := range n.Params {
			n.Params[i].Default = Rewrite(n.Params[i].Default, fn)
		}

		n.Body = Rewrite(n.Body, fn)
	case *Tuple:
		each(n.Items)
	case *Cast:
		n.Value = Rewrite(n.Value, fn)
		n.Type = Rewrite(n.Type, fn)
	case *InstanceOf:
		n.Value = Rewrite(n.Value, fn)
		n.Type = Rewrite(n.Type, fn)
	case *List:
		each(n.Items)
	case *Group:
		n.Inner = Rewrite(n.Inner, fn)
	case *Block:
		each(n.Body)
	case *If:
		n.Cond = Rewrite(n.Cond, fn)
		n.Then = Rewrite(n.Then, fn)
		n.Else = Rewrite(n.Else, fn)
	case *While:
		n.Cond = Rewrite(n.Cond, fn)
		n.Body = Rewrite(n.Body, fn)
	case *With:
		n.Scope = Rewrite(n.Scope, fn)
		n.Body = Rewrite(n.Body, fn)
	case *Throw:
		n.Value = Rewrite(n.Value, fn)
	case *Return:
		n.Value = Rewrite(n.Value, fn)
	case *Try:
		n.Body = Rewrite(n.Body, fn)
		n.Handler = Rewrite(n.Handler, fn)
	case *New:
		n.Type = Rewrite(n.Type, fn)
		each(n.Args)
	case *Object:
		each(n.Body.Body)
	case *Member:
		n.Recv = Rewrite(n.Recv, fn)
	case *Call:
		n.Fn = Rewrite(n.Fn, fn)
		each(n.Args)
	case *Index:
		n.Recv = Rewrite(n.Recv, fn)
		each(n.Args)
	case *Spread:
		n.Value = Rewrite(n.Value, fn)
	}

	return fn(n)
}

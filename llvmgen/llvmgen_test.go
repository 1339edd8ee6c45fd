package llvmgen

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/thiremani/cfront/compiler"
	"tinygo.org/x/go-llvm"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	unit, err := compiler.CompileSource("test.c", src)
	require.NoError(t, err)

	ctx := llvm.NewContext()
	defer ctx.Dispose()

	mod, err := Generate(ctx, "test", unit.IR, unit.Table)
	require.NoError(t, err)
	defer mod.Dispose()
	return mod.String()
}

func TestFunctionsAndGlobals(t *testing.T) {
	out := generate(t, `
static long counter = 2;
int shared;
extern int elsewhere;
static int helper(int x) { return x + elsewhere; }
int main(void) { return helper(1) + (int)counter + shared; }
`)

	require.Contains(t, out, "@counter = internal global i64 2")
	require.Contains(t, out, "@shared = global i32 0")
	require.Contains(t, out, "@elsewhere = external global i32")
	require.Contains(t, out, "define internal i32 @helper(i32")
	require.Contains(t, out, "define i32 @main()")
	require.Contains(t, out, "call i32 @helper(i32 1)")
	require.Contains(t, out, "trunc i64")
}

func TestDeclarationsOnly(t *testing.T) {
	out := generate(t, "long twice(long x); int main(void) { return twice(3) == 6l; }")
	require.Contains(t, out, "declare i64 @twice(i64)")
	require.Contains(t, out, "icmp eq i64")
}

func TestControlFlowVerifies(t *testing.T) {
	out := generate(t, `
int main(void) {
    int total = 0;
    for (int i = 0; i < 10; i++) {
        if (i % 2 && i != 5)
            continue;
        switch (i) {
        case 4:
            total += 40;
            break;
        default:
            total += i > 6 ? 1 : 2;
        }
    }
    do {
        total--;
        goto out;
    } while (total);
out:
    return total;
}
`)
	require.Contains(t, out, "loop.")
	require.Contains(t, out, "switch.")
	require.Contains(t, out, "br i1")
}

func TestConversionsAndPointers(t *testing.T) {
	out := generate(t, `
double scale(unsigned long u, int i) {
    double d = u;
    d = d * i;
    return d;
}
int main(void) {
    int x = 7;
    int *p = &x;
    long bits = (long)p;
    int *q = (int *)bits;
    unsigned int u = (unsigned int)scale(3ul, -2);
    *q += 1;
    return (p == q) + (int)u + (x >> 1);
}
`)
	require.Contains(t, out, "uitofp i64")
	require.Contains(t, out, "sitofp i32")
	require.Contains(t, out, "fptoui double")
	require.Contains(t, out, "ptrtoint")
	require.Contains(t, out, "inttoptr")
	require.Contains(t, out, "ashr i32")
}

func TestGeneratorIR(t *testing.T) {
	unit, err := compiler.CompileSource("test.c", "int main(void) { return !0; }")
	require.NoError(t, err)

	ctx := llvm.NewContext()
	defer ctx.Dispose()
	g := NewGenerator(ctx, "gen", unit.Table)
	require.NoError(t, g.Emit(unit.IR))
	require.Contains(t, g.GenerateIR(), "ret i32")
	g.Module.Dispose()
}

package simplex_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lplab/internal/simplex"
)

var _ = Describe("Solver", func() {
	var (
		A    [][]float64
		b, c []float64
	)

	Context("with a bounded problem and a unique optimum", func() {
		BeforeEach(func() {
			A = [][]float64{{1, 1}, {1, 0}, {0, 1}}
			b = []float64{4, 2, 3}
			c = []float64{3, 2}
		})

		It("reaches the optimum in two pivots", func() {
			sol, err := simplex.Solve(A, b, c)
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.Value).To(BeNumerically("~", 10, simplex.Epsilon))
			Expect(sol.Primal).To(HaveExactElements(
				BeNumerically("~", 2, simplex.Epsilon),
				BeNumerically("~", 2, simplex.Epsilon),
			))
			Expect(sol.Dual).To(HaveExactElements(
				BeNumerically("~", 2, simplex.Epsilon),
				BeNumerically("~", 1, simplex.Epsilon),
				BeNumerically("~", 0, simplex.Epsilon),
			))
			Expect(sol.Pivots).To(Equal(2))
		})

		It("produces a certified primal-dual pair", func() {
			sol, err := simplex.Solve(A, b, c)
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.Certify(A, b, c)).To(Succeed())
		})

		It("walks through running to optimal one pivot at a time", func() {
			s, err := simplex.New(A, b, c)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Status()).To(Equal(simplex.Running))

			values := []float64{s.Value()}
			for {
				done, err := s.Step()
				Expect(err).NotTo(HaveOccurred())
				if done {
					break
				}
				values = append(values, s.Value())
			}
			Expect(s.Status()).To(Equal(simplex.Optimal))
			Expect(values).To(HaveExactElements(
				BeNumerically("~", 0, simplex.Epsilon),
				BeNumerically("~", 6, simplex.Epsilon),
				BeNumerically("~", 10, simplex.Epsilon),
			))
		})
	})

	Context("with an unbounded direction", func() {
		It("reports unbounded before pivoting", func() {
			_, err := simplex.Solve([][]float64{{-1, 1}}, []float64{1}, []float64{1, 0})
			Expect(err).To(MatchError(simplex.ErrUnbounded))
			Expect(simplex.StatusOf(err)).To(Equal(simplex.Unbounded))
		})
	})

	Context("with zero objective", func() {
		It("is optimal at the origin", func() {
			sol, err := simplex.Solve([][]float64{{1, 2}}, []float64{5}, []float64{0, 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.Value).To(BeZero())
			Expect(sol.Pivots).To(BeZero())
			Expect(sol.Primal).To(Equal([]float64{0, 0}))
		})
	})

	DescribeTable("rejects malformed input",
		func(A [][]float64, b, c []float64) {
			s, err := simplex.New(A, b, c)
			Expect(s).To(BeNil())
			Expect(err).To(MatchError(simplex.ErrInvalidInput))
		},
		Entry("negative rhs", [][]float64{{1}}, []float64{-1}, []float64{1}),
		Entry("NaN coefficient", [][]float64{{math.NaN()}}, []float64{1}, []float64{1}),
		Entry("infinite cost", [][]float64{{1}}, []float64{1}, []float64{math.Inf(-1)}),
		Entry("missing row", [][]float64{}, []float64{1}, []float64{1}),
		Entry("ragged row", [][]float64{{1, 1}, {1}}, []float64{1, 1}, []float64{1, 1}),
	)

	Describe("Bland's rule on degenerate problems", func() {
		It("terminates on the classic cycling example", func() {
			A := [][]float64{{0.5, -5.5, -2.5, 9}, {0.5, -1.5, -0.5, 1}, {1, 0, 0, 0}}
			b := []float64{0, 0, 1}
			c := []float64{10, -57, -9, -24}

			var degenerate int
			sol, err := simplex.Solve(A, b, c, simplex.WithObserver(simplex.ObserverFunc(func(p simplex.Pivot) {
				if p.Degenerate {
					degenerate++
				}
			})))
			Expect(err).NotTo(HaveOccurred())
			Expect(sol.Value).To(BeNumerically("~", 1, simplex.Epsilon))
			Expect(sol.Pivots).To(Equal(7))
			Expect(degenerate).To(Equal(6))
		})

		It("terminates on random problems with zero right-hand sides", func() {
			rng := rand.New(rand.NewSource(3))
			for trial := 0; trial < 200; trial++ {
				m, n := rng.Intn(5)+2, rng.Intn(5)+2
				A := make([][]float64, m)
				b := make([]float64, m)
				for i := range A {
					A[i] = make([]float64, n)
					for j := range A[i] {
						A[i][j] = float64(rng.Intn(7) - 3)
					}
					if rng.Intn(2) == 0 {
						b[i] = float64(rng.Intn(5))
					}
				}
				c := make([]float64, n)
				for j := range c {
					c[j] = float64(rng.Intn(7) - 2)
				}

				sol, err := simplex.Solve(A, b, c, simplex.WithMaxPivots(10000))
				if err != nil {
					Expect(err).To(MatchError(simplex.ErrUnbounded))
					continue
				}
				Expect(sol.Certify(A, b, c)).To(Succeed())
			}
		})
	})

	Describe("pivot cap", func() {
		It("stops with an iteration limit", func() {
			A := [][]float64{{5, 15}, {4, 4}, {35, 20}}
			b := []float64{480, 160, 1190}
			c := []float64{13, 23}

			s, err := simplex.New(A, b, c, simplex.WithMaxPivots(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Solve()).To(MatchError(simplex.ErrIterationLimit))
			Expect(s.Pivots()).To(Equal(1))
			Expect(s.Status()).To(Equal(simplex.IterationLimit))

			_, err = s.Solution()
			Expect(err).To(MatchError(simplex.ErrIterationLimit))
		})
	})
})

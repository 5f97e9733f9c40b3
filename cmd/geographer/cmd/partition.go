package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kit-parco/geographer-go/internal/comm"
	"github.com/kit-parco/geographer-go/internal/graphutil"
	"github.com/kit-parco/geographer-go/internal/kmeans"
	"github.com/kit-parco/geographer-go/internal/proctree"
	"github.com/kit-parco/geographer-go/internal/sfc"
	"github.com/kit-parco/geographer-go/pkg/config"
	"github.com/kit-parco/geographer-go/pkg/graphio"
	"github.com/kit-parco/geographer-go/pkg/model"
	"github.com/kit-parco/geographer-go/pkg/utils"
)

var (
	graphPath      string
	graphFormat    string
	coordsPath     string
	coordFormat    string
	blockSizesPath string
	outputPath     string
	dimensions     int
	numBlocks      int
	epsilon        float64
	numNodeWeights int
	hierLevelsFlag string
	sfcResolution  int
	rebalanceFlag  string
	numRanks       int
)

var partitionCmd = &cobra.Command{
	Use:   "partition",
	Short: "Partition a coordinate file (and optional graph) into balanced blocks",
	Example: `  geographer partition --coords mesh.xyz --blocks 16 --epsilon 0.03
  geographer partition --coords mesh.xyz --graph mesh.graph --blocks 16 --hier-levels 4,4`,
	RunE: runPartition,
}

func init() {
	rootCmd.AddCommand(partitionCmd)

	partitionCmd.Flags().StringVar(&graphPath, "graph", "", "Input graph file (optional, used only to report cut quality)")
	partitionCmd.Flags().StringVar(&graphFormat, "graph-format", "metis", "Graph format: metis, binary, mm")
	partitionCmd.Flags().StringVar(&coordsPath, "coords", "", "Input coordinate file (required)")
	partitionCmd.Flags().StringVar(&coordFormat, "coord-format", "plain", "Coordinate format: plain, ocean, teec, binary")
	partitionCmd.Flags().StringVar(&blockSizesPath, "block-sizes", "", "Optional per-block target weights file (flat partitioning only)")
	partitionCmd.Flags().StringVarP(&outputPath, "output", "o", "partition.out", "Output partition file")
	partitionCmd.Flags().IntVar(&dimensions, "dimensions", 2, "Number of spatial dimensions")
	partitionCmd.Flags().IntVar(&numBlocks, "blocks", 1, "Target number of blocks")
	partitionCmd.Flags().Float64Var(&epsilon, "epsilon", 0.03, "Balance tolerance")
	partitionCmd.Flags().IntVar(&numNodeWeights, "num-node-weights", 1, "Number of node weight criteria")
	partitionCmd.Flags().StringVar(&hierLevelsFlag, "hier-levels", "", "Comma-separated processor tree branching factors, e.g. 4,4")
	partitionCmd.Flags().IntVar(&sfcResolution, "sfc-resolution", 19, "Hilbert curve bits per axis")
	partitionCmd.Flags().StringVar(&rebalanceFlag, "rebalance", "repart", "Rebalance method: repart, reb_lex, reb_sq, or none")
	partitionCmd.Flags().IntVar(&numRanks, "ranks", 1, "Number of simulated SPMD ranks to partition across")
	partitionCmd.MarkFlagRequired("coords")
}

func runPartition(cmd *cobra.Command, args []string) error {
	log := GetLogger()

	hierLevels, err := parseHierLevels(hierLevelsFlag)
	if err != nil {
		return err
	}

	cfg := &config.Config{
		Geometry: config.GeometryConfig{
			Dimensions:     dimensions,
			NumBlocks:      numBlocks,
			NumNodeWeights: numNodeWeights,
			Epsilon:        epsilon,
			HierLevels:     hierLevels,
			SFCResolution:  sfcResolution,
		},
		Sampling: config.SamplingConfig{
			MinSamplingNodes:    1000,
			MaxKMeansIterations: 20,
			BalanceIterations:   20,
		},
		Influence: config.InfluenceConfig{
			Exponent:       1.0,
			ChangeCap:      0.1,
			TightenBounds:  true,
			FreezeBalanced: false,
		},
		Rebalance: config.RebalanceConfig{
			Method:           rebalanceFlag,
			KeepMostBalanced: true,
		},
	}
	if rebalanceFlag == "none" {
		// "none" is a CLI-only value disabling the pass below; substitute a
		// valid method name so Config.Validate doesn't reject it.
		cfg.Rebalance.Method = "repart"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	points, err := readCoords(coordsPath, coordFormat, dimensions)
	if err != nil {
		return fmt.Errorf("reading coordinates: %w", err)
	}
	expandWeights(points, numNodeWeights)

	var graph *model.LocalGraph
	if graphPath != "" {
		graph, err = readGraph(graphPath, graphFormat)
		if err != nil {
			return fmt.Errorf("reading graph: %w", err)
		}
		if graph.N != points.N {
			return fmt.Errorf("graph has %d vertices but coordinate file has %d points", graph.N, points.N)
		}
	}

	totalWeight := make([]float64, numNodeWeights)
	for w := 0; w < numNodeWeights; w++ {
		for i := 0; i < points.N; i++ {
			totalWeight[w] += points.Weight(i, w)
		}
	}

	var tree *proctree.Tree
	if len(hierLevels) > 0 {
		tree = proctree.BuildUniform(hierLevels, numNodeWeights)
	}

	var target [][]float64
	if tree == nil {
		if blockSizesPath != "" {
			f, err := os.Open(blockSizesPath)
			if err != nil {
				return fmt.Errorf("opening block-sizes file: %w", err)
			}
			defer f.Close()
			target, err = graphio.ReadBlockSizes(f, numNodeWeights)
			if err != nil {
				return fmt.Errorf("reading block-sizes file: %w", err)
			}
		} else {
			target = model.NewUniformBlockSet(numBlocks, numNodeWeights, totalWeight).TargetWeight
		}
	}

	engineCfg := buildEngineConfig(cfg, numRanks, rebalanceFlag != "none")

	// The initial contiguous split only seeds sfc.Redistribute's input; it
	// carries no meaning once every rank's points are back in Hilbert-curve
	// order, the distribution the engine and the graph utilities actually
	// partition over.
	rawDist := model.NewBlockDistribution(int64(points.N), numRanks)
	rawShards := make([]*model.PointSet[float64], numRanks)
	for r := 0; r < numRanks; r++ {
		start, end := rawDist.LocalRange(r)
		rawShards[r] = shardPointSet(points, start, end)
	}

	results := make([]*kmeans.Result[float64], numRanks)
	redistributed := make([]*model.PointSet[float64], numRanks)
	cuts := make([]float64, numRanks)
	phaseDurations := make([]map[string]time.Duration, numRanks)

	world := comm.NewLocalWorld(numRanks)
	err = world.Run(context.Background(), func(ctx context.Context, c comm.Communicator) error {
		// Rank-local timer: internal/comm.LocalWorld runs one goroutine per
		// rank, and a Timer shared across ranks would have concurrent Start
		// calls for the same phase name stomp each other's Phase record.
		timer := utils.NewTimer("geographer.partition")

		redistPhase := timer.Start("sfc-redistribute")
		local, sfcDist, serr := sfc.Redistribute(ctx, c, rawShards[c.Rank()], sfcResolution)
		redistPhase.Stop()
		if serr != nil {
			return serr
		}
		redistributed[c.Rank()] = local

		var result *kmeans.Result[float64]
		var rerr error
		if tree != nil {
			result, rerr = kmeans.RunHierarchical(ctx, c, local, tree, totalWeight, engineCfg)
		} else {
			selectPhase := timer.Start("select-centers")
			centers, cerr := kmeans.SelectInitialCenters(ctx, c, local, nil, []int{numBlocks})
			selectPhase.Stop()
			if cerr != nil {
				return cerr
			}
			result, rerr = kmeans.RunFlat(ctx, c, local, nil, centers, target, engineCfg)
		}
		if rerr != nil {
			return rerr
		}
		results[c.Rank()] = result

		durations := make(map[string]time.Duration)
		for _, p := range timer.GetPhases() {
			durations[p.Name] = p.Duration
		}
		for name, d := range result.PhaseDurations {
			durations[name] += d
		}
		phaseDurations[c.Rank()] = durations

		if graph != nil {
			g := shardGraphByIDs(graph, local.GlobalIndex)
			ownIndex := graphutil.NeighborIndex(g)
			neighborLabels, herr := graphutil.ExchangeNeighborBlocks(ctx, c, g, sfcDist, result.Assignment, ownIndex)
			if herr != nil {
				return herr
			}
			localCut := graphutil.LocalCut(g, result.Assignment, ownIndex, neighborLabels)
			globalCut, gerr := graphutil.GlobalCut(ctx, c, localCut)
			if gerr != nil {
				return gerr
			}
			cuts[c.Rank()] = globalCut
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("partitioning: %w", err)
	}

	assignment := make(model.Assignment, points.N)
	for r := 0; r < numRanks; r++ {
		for i, gid := range redistributed[r].GlobalIndex {
			assignment[gid] = results[r].Assignment[i]
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()
	if err := graphio.WritePartition(out, assignment); err != nil {
		return err
	}

	first := results[0]
	log.Info("Partitioned %d points into %d blocks across %d rank(s)", points.N, numBlocks, numRanks)
	log.Info("Iterations: %d  Converged: %v  Imbalance: %v", first.Iterations, first.Converged, first.Imbalance)
	if graph != nil {
		log.Info("Edge cut: %.0f", cuts[0])
	}
	for _, phase := range []string{"sfc-redistribute", "select-centers", "kmeans-iterate", "rebalance"} {
		if d, ok := phaseDurations[0][phase]; ok {
			log.Info("Phase %s (rank 0): %s", phase, d)
		}
	}
	log.Info("Partition written to %s", outputPath)
	return nil
}

// buildEngineConfig translates the CLI/config surface into the engine's
// EngineConfig, following the one-struct-to-another mapping the teacher
// uses to turn BaseAnalyzerConfig flags into an analyzer-specific config.
func buildEngineConfig(cfg *config.Config, numRanks int, withRebalance bool) kmeans.EngineConfig[float64] {
	eps := make([]float64, cfg.Geometry.NumNodeWeights)
	for i := range eps {
		eps[i] = cfg.Geometry.Epsilon
	}

	var rebalance *kmeans.RebalanceConfig[float64]
	if withRebalance {
		rebalance = &kmeans.RebalanceConfig[float64]{
			NearestCount:     4,
			BatchFraction:    0.1,
			MaxRounds:        5,
			MinMovedFraction: 0.001,
		}
	}

	return kmeans.EngineConfig[float64]{
		Epsilon:                    eps,
		MinSamplingNodes:           cfg.Sampling.MinSamplingNodes,
		MaxKMeansIterations:        cfg.Sampling.MaxKMeansIterations,
		BalanceIterations:          cfg.Sampling.BalanceIterations,
		InfluenceExponent:          cfg.Influence.Exponent,
		InfluenceChangeCap:         cfg.Influence.ChangeCap,
		TightenBounds:              cfg.Influence.TightenBounds,
		FreezeBalanced:             cfg.Influence.FreezeBalanced,
		ErodeInfluence:             cfg.Influence.Erode,
		FreezeEpsilon:              0.01,
		KeepMostBalanced:           cfg.Rebalance.KeepMostBalanced,
		ConvergenceThresholdFactor: 1e-4,
		Rebalance:                  rebalance,
		NumRanks:                   numRanks,
	}
}

func parseHierLevels(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid hier-levels entry %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}

func readCoords(path, format string, d int) (*model.PointSet[float64], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch format {
	case "plain":
		return graphio.ReadCoordText(f, d, graphio.CoordPlain)
	case "ocean":
		return graphio.ReadCoordText(f, d, graphio.CoordOCEAN)
	case "teec":
		return graphio.ReadCoordText(f, d, graphio.CoordTEEC)
	case "binary":
		return graphio.ReadCoordBinary(f)
	default:
		return nil, fmt.Errorf("unsupported coordinate format: %s", format)
	}
}

func readGraph(path, format string) (*model.LocalGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch format {
	case "metis":
		g, _, err := graphio.ReadMETISGraph(f)
		return g, err
	case "binary":
		return graphio.ReadBinaryGraph(f)
	case "mm":
		return graphio.ReadMatrixMarket(f)
	default:
		return nil, fmt.Errorf("unsupported graph format: %s", format)
	}
}

func expandWeights(ps *model.PointSet[float64], numWeights int) {
	for len(ps.Weights) < numWeights {
		ones := make([]float64, ps.N)
		for i := range ones {
			ones[i] = 1
		}
		ps.Weights = append(ps.Weights, ones)
	}
}

func shardPointSet(ps *model.PointSet[float64], start, end int64) *model.PointSet[float64] {
	n := int(end - start)
	d := ps.D
	shard := &model.PointSet[float64]{N: n, D: d}
	shard.Coords = append([]float64(nil), ps.Coords[int(start)*d:int(end)*d]...)
	shard.Weights = make([][]float64, len(ps.Weights))
	for w := range ps.Weights {
		shard.Weights[w] = append([]float64(nil), ps.Weights[w][start:end]...)
	}
	if ps.GlobalIndex != nil {
		shard.GlobalIndex = append([]int64(nil), ps.GlobalIndex[start:end]...)
	}
	return shard
}

// shardGraphByIDs builds a rank's local graph from an arbitrary, ordered
// list of global vertex ids -- the Hilbert-curve order sfc.Redistribute
// assigned this rank, not a contiguous range. Referenced neighbors that
// fall outside ids stay as global ids for the halo exchange to resolve.
func shardGraphByIDs(g *model.LocalGraph, ids []int64) *model.LocalGraph {
	n := len(ids)
	shard := &model.LocalGraph{
		N:           n,
		XAdj:        make([]int64, n+1),
		GlobalIndex: append([]int64(nil), ids...),
	}
	var neighbors []int64
	var edgeWeights []float64
	for i, gid := range ids {
		s, e := g.NeighborRange(int(gid))
		for e0 := s; e0 < e; e0++ {
			neighbors = append(neighbors, g.Neighbors[e0])
			if g.EdgeWeights != nil {
				edgeWeights = append(edgeWeights, g.EdgeWeights[e0])
			}
		}
		shard.XAdj[i+1] = int64(len(neighbors))
	}
	shard.Neighbors = neighbors
	if g.EdgeWeights != nil {
		shard.EdgeWeights = edgeWeights
	}
	return shard
}

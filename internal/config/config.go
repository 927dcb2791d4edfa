// Package config loads pipeline settings from defaults, an optional config
// file, GENOPIPE_* environment variables and command-line flags, in
// increasing order of precedence.
//
// Relative paths are resolved against Root after loading.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override: GENOPIPE_PREDICTION_OUT_DIR.
const EnvPrefix = "GENOPIPE"

// Config is the full settings tree.
type Config struct {
	Root      string        `mapstructure:"root"`
	Jobs      int           `mapstructure:"jobs"`
	Timeout   time.Duration `mapstructure:"timeout"`
	SkipEmpty bool          `mapstructure:"skip_empty"`

	Exec        Exec        `mapstructure:"exec"`
	Comparative Comparative `mapstructure:"comparative"`
	Prediction  Prediction  `mapstructure:"prediction"`
	ORF         ORF         `mapstructure:"orf"`
	Log         Log         `mapstructure:"log"`
}

// Exec names the external executables; bare names are looked up on $PATH.
type Exec struct {
	FastANI          string `mapstructure:"fastani"`
	Skani            string `mapstructure:"skani"`
	ANIclustermap    string `mapstructure:"aniclustermap"`
	MLST             string `mapstructure:"mlst"`
	Parsnp           string `mapstructure:"parsnp"`
	Prodigal         string `mapstructure:"prodigal"`
	FragGeneScan     string `mapstructure:"fraggenescan"`
	Balrog           string `mapstructure:"balrog"`
	AggregateCompare string `mapstructure:"aggregate_compare"`
	Python           string `mapstructure:"python"`
}

type Comparative struct {
	AssemblyDir string   `mapstructure:"assembly_dir"`
	Pattern     string   `mapstructure:"pattern"`
	Stages      []string `mapstructure:"stages"`
	Output      string   `mapstructure:"output"` // text | json | jsonl
	KeepGoing   bool     `mapstructure:"keep_going"`

	FastANI    Pairwise   `mapstructure:"fastani"`
	Skani      SkaniConf  `mapstructure:"skani"`
	Clustermap Clustermap `mapstructure:"clustermap"`
	MLST       MLST       `mapstructure:"mlst"`
	Parsnp     Parsnp     `mapstructure:"parsnp"`
}

// Pairwise locates the inputs and outputs of one pairwise distance method.
type Pairwise struct {
	DataDir string `mapstructure:"data_dir"`
	OutDir  string `mapstructure:"out_dir"`
	Report  string `mapstructure:"report"`
}

type SkaniConf struct {
	Pairwise    `mapstructure:",squash"`
	Threads     int    `mapstructure:"threads"`
	TriangleDir string `mapstructure:"triangle_dir"`
	Matrix      string `mapstructure:"matrix"`
	PlotScript  string `mapstructure:"plot_script"`
}

type Clustermap struct {
	Input      string  `mapstructure:"input"` // empty: fastANI data dir
	Output     string  `mapstructure:"output"`
	FigWidth   float64 `mapstructure:"fig_width"`
	FigHeight  float64 `mapstructure:"fig_height"`
	Annotation bool    `mapstructure:"annotation"`
}

type MLST struct {
	Output string `mapstructure:"output"`
}

type Parsnp struct {
	Reference string `mapstructure:"reference"`
	OutDir    string `mapstructure:"out_dir"`
}

type Prediction struct {
	AssemblyDir    string        `mapstructure:"assembly_dir"`
	Pattern        string        `mapstructure:"pattern"`
	OutDir         string        `mapstructure:"out_dir"`
	Tools          []string      `mapstructure:"tools"`
	Output         string        `mapstructure:"output"` // text | json | jsonl
	SampleInterval time.Duration `mapstructure:"sample_interval"`
	SampleCapacity int           `mapstructure:"sample_capacity"`
}

// ToolDir is the output directory of one predictor.
func (p Prediction) ToolDir(tool string) string {
	switch tool {
	case "prodigal":
		return filepath.Join(p.OutDir, "prodigal_output")
	case "fraggenescan":
		return filepath.Join(p.OutDir, "fgs_output")
	case "balrog":
		return filepath.Join(p.OutDir, "balrog_output")
	}
	return filepath.Join(p.OutDir, tool+"_output")
}

type ORF struct {
	DNADir     string      `mapstructure:"dna_dir"`
	DNAPattern string      `mapstructure:"dna_pattern"`
	Reference  string      `mapstructure:"reference"`
	OutDir     string      `mapstructure:"out_dir"`
	Targets    []ORFTarget `mapstructure:"targets"`
}

// ORFTarget mirrors orf.Target; empty Targets means Prodigal and
// FragGeneScan read from the prediction output directories.
type ORFTarget struct {
	Tool        string `mapstructure:"tool"`
	Predictions string `mapstructure:"predictions"`
	Pattern     string `mapstructure:"pattern"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New returns a viper instance carrying every default and reading
// GENOPIPE_* environment overrides.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("root", ".")
	v.SetDefault("jobs", 1)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("skip_empty", false)

	for key, name := range map[string]string{
		"fastani":           "fastANI",
		"skani":             "skani",
		"aniclustermap":     "ANIclustermap",
		"mlst":              "mlst",
		"parsnp":            "parsnp",
		"prodigal":          "prodigal",
		"fraggenescan":      "run_FragGeneScan.pl",
		"balrog":            "balrog",
		"aggregate_compare": "Aggregate-Compare",
		"python":            "python",
	} {
		v.SetDefault("exec."+key, name)
	}

	v.SetDefault("comparative.assembly_dir", "assembly/final_results")
	v.SetDefault("comparative.pattern", "*.fasta")
	v.SetDefault("comparative.stages", []string{"fastani", "clustermap", "skani", "mlst", "parsnp"})
	v.SetDefault("comparative.output", "text")
	v.SetDefault("comparative.keep_going", false)
	v.SetDefault("comparative.fastani.data_dir", "comparative/FastANI/data")
	v.SetDefault("comparative.fastani.out_dir", "comparative/FastANI/FastANI_Outdir")
	v.SetDefault("comparative.fastani.report", "comparative/resultsFastANI.txt")
	v.SetDefault("comparative.skani.data_dir", "comparative/skANI/data")
	v.SetDefault("comparative.skani.out_dir", "comparative/skANI/SKANI_Outdir")
	v.SetDefault("comparative.skani.report", "comparative/resultsSKANI.txt")
	v.SetDefault("comparative.skani.threads", 5)
	v.SetDefault("comparative.skani.triangle_dir", "comparative/skANI/data/genome_folder")
	v.SetDefault("comparative.skani.matrix", "comparative/skANI/skani_ani_matrix.txt")
	v.SetDefault("comparative.skani.plot_script", "")
	v.SetDefault("comparative.clustermap.input", "")
	v.SetDefault("comparative.clustermap.output", "comparative/ANIclustermap")
	v.SetDefault("comparative.clustermap.fig_width", 20.0)
	v.SetDefault("comparative.clustermap.fig_height", 15.0)
	v.SetDefault("comparative.clustermap.annotation", false)
	v.SetDefault("comparative.mlst.output", "comparative/mlst_output/mlst.tsv")
	v.SetDefault("comparative.parsnp.reference", "comparative/snp_analysis/ref/sequence.gbk")
	v.SetDefault("comparative.parsnp.out_dir", "comparative/snp_analysis/parsnp_output")

	v.SetDefault("prediction.assembly_dir", "assembly/final_results")
	v.SetDefault("prediction.pattern", "*.fasta")
	v.SetDefault("prediction.out_dir", "prediction")
	v.SetDefault("prediction.tools", []string{"prodigal", "fraggenescan", "balrog"})
	v.SetDefault("prediction.output", "text")
	v.SetDefault("prediction.sample_interval", 10*time.Millisecond)
	v.SetDefault("prediction.sample_capacity", 4096)

	v.SetDefault("orf.dna_dir", "tests/dna_files")
	v.SetDefault("orf.dna_pattern", "*.fasta")
	v.SetDefault("orf.reference", "orf/genomic.gff")
	v.SetDefault("orf.out_dir", "orf")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// BindFlags binds command-line flags to config keys; a flag set on the
// command line wins over the file and the environment. Flags absent from fs
// are ignored.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	return nil
}

// Load reads file (if not empty) into v and decodes the result. Paths are
// resolved against Root, which itself is made absolute.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := c.resolve(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the settings that have no sensible fallback.
func (c *Config) Validate() error {
	if c.Jobs < 0 {
		return errors.New("jobs must be >= 0")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must be >= 0")
	}
	if c.Comparative.Skani.Threads < 1 {
		return errors.New("comparative.skani.threads must be >= 1")
	}
	for key, f := range map[string]string{"prediction.output": c.Prediction.Output, "comparative.output": c.Comparative.Output} {
		switch f {
		case "text", "json", "jsonl":
		default:
			return fmt.Errorf("invalid %s %q (want text, json or jsonl)", key, f)
		}
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q (want text or json)", c.Log.Format)
	}
	for i, t := range c.ORF.Targets {
		if t.Tool == "" || t.Pattern == "" {
			return fmt.Errorf("orf.targets[%d]: tool and pattern are required", i)
		}
	}
	return nil
}

func (c *Config) resolve() error {
	root, err := filepath.Abs(c.Root)
	if err != nil {
		return err
	}
	c.Root = root
	r := func(p *string) { *p = Resolve(root, *p) }

	cm := &c.Comparative
	for _, p := range []*string{
		&cm.AssemblyDir,
		&cm.FastANI.DataDir, &cm.FastANI.OutDir, &cm.FastANI.Report,
		&cm.Skani.DataDir, &cm.Skani.OutDir, &cm.Skani.Report,
		&cm.Skani.TriangleDir, &cm.Skani.Matrix, &cm.Skani.PlotScript,
		&cm.Clustermap.Input, &cm.Clustermap.Output,
		&cm.MLST.Output,
		&cm.Parsnp.Reference, &cm.Parsnp.OutDir,
		&c.Prediction.AssemblyDir, &c.Prediction.OutDir,
		&c.ORF.DNADir, &c.ORF.Reference, &c.ORF.OutDir,
	} {
		r(p)
	}
	if cm.Clustermap.Input == "" {
		cm.Clustermap.Input = cm.FastANI.DataDir
	}
	for i := range c.ORF.Targets {
		r(&c.ORF.Targets[i].Predictions)
	}
	return nil
}

// Resolve joins a relative p onto root. Empty and absolute paths are
// returned unchanged.
func Resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

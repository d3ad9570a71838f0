package main

import (
	"errors"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/aellingwood/herogen/internal/deploy"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Publish rendered heroes to S3",
	Long:  "Upload new and changed hero images from the output directory to the configured S3 bucket and invalidate their CloudFront paths.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		remove, _ := cmd.Flags().GetBool("delete")
		verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")

		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		if cfg.Deploy.S3.Bucket == "" {
			return errors.New("deploy.s3.bucket is not configured")
		}

		ctx := cmdContext(cmd)
		var loadOpts []func(*awsconfig.LoadOptions) error
		if cfg.Deploy.S3.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Deploy.S3.Region))
		}
		if cfg.Deploy.Profile != "" {
			loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(cfg.Deploy.Profile))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return fmt.Errorf("loading AWS config: %w", err)
		}

		s3Client := deploy.NewAWSS3Client(s3.NewFromConfig(awsCfg), cfg.Deploy.S3.Bucket)
		var cfClient deploy.CloudFrontClient
		if cfg.Deploy.CloudFront.DistributionID != "" {
			cfClient = deploy.NewAWSCloudFrontClient(cloudfront.NewFromConfig(awsCfg))
		}

		result, err := deploy.Deploy(ctx, deploy.Config{
			Bucket:       cfg.Deploy.S3.Bucket,
			Region:       cfg.Deploy.S3.Region,
			Prefix:       cfg.Deploy.S3.Prefix,
			Distribution: cfg.Deploy.CloudFront.DistributionID,
			Delete:       remove,
			DryRun:       dryRun,
			Verbose:      verbose,
			Out:          cmd.OutOrStdout(),
		}, cfg.Output.Dir, s3Client, cfClient)
		if err != nil {
			return err
		}

		verb := "Uploaded"
		if dryRun {
			verb = "Would upload"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d file(s), deleted %d, %d unchanged\n",
			verb, result.Uploaded, result.Deleted, result.Skipped)
		if len(result.Errors) > 0 {
			return fmt.Errorf("deploy finished with %d error(s): %w", len(result.Errors), errors.Join(result.Errors...))
		}
		return nil
	},
}

func init() {
	deployCmd.Flags().Bool("dry-run", false, "show what would be deployed without deploying")
	deployCmd.Flags().Bool("delete", false, "delete remote images that no longer exist locally")

	rootCmd.AddCommand(deployCmd)
}
